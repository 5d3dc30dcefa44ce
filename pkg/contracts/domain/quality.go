package domain

import "fmt"

// IssueCode identifies a kind of data-quality violation.
type IssueCode string

const (
	IssueNegativeCost         IssueCode = "negative_cost"
	IssueExcessDepreciation   IssueCode = "excess_depreciation"
	IssueNegativeNetBookValue IssueCode = "negative_net_book_value"
	IssueNegativeAge          IssueCode = "negative_age"
	IssueDuplicateTag         IssueCode = "duplicate_tag"
)

var issueLabels = map[IssueCode]string{
	IssueNegativeCost:         "negative costs",
	IssueExcessDepreciation:   "depreciation exceeding cost",
	IssueNegativeNetBookValue: "negative net book values",
	IssueNegativeAge:          "negative asset ages",
	IssueDuplicateTag:         "duplicate tag numbers",
}

// QualityIssue is one reported violation and the number of rows affected.
type QualityIssue struct {
	Code  IssueCode `json:"code"`
	Count int       `json:"count"`
}

// Message renders the issue for display.
func (i QualityIssue) Message() string {
	label, ok := issueLabels[i.Code]
	if !ok {
		label = string(i.Code)
	}
	return fmt.Sprintf("%s: %d records", label, i.Count)
}

// QualityReport lists the violations found in a register. An empty report
// means every check passed.
type QualityReport struct {
	Issues []QualityIssue `json:"issues"`
}

// OK reports whether no issue was found.
func (r QualityReport) OK() bool {
	return len(r.Issues) == 0
}

// Messages returns the human-readable form of every issue.
func (r QualityReport) Messages() []string {
	out := make([]string, 0, len(r.Issues))
	for _, issue := range r.Issues {
		out = append(out, issue.Message())
	}
	return out
}

// Count returns the affected row count for code, or 0.
func (r QualityReport) Count(code IssueCode) int {
	for _, issue := range r.Issues {
		if issue.Code == code {
			return issue.Count
		}
	}
	return 0
}

// CompletenessResult is the outcome of the structural checks run before a
// register is trusted for reporting.
type CompletenessResult struct {
	Passed   []string `json:"passed"`
	Warnings []string `json:"warnings"`
	Errors   []string `json:"errors"`
}
