package dataprocessing

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"

	"fardash/pkg/contracts/domain"
)

// MinWordLength is the shortest word used when a search falls back to
// matching individual words.
const MinWordLength = 3

// searchFields are the record fields free-text search looks at.
var searchFields = []func(domain.AssetRecord) string{
	func(r domain.AssetRecord) string { return r.Description },
	func(r domain.AssetRecord) string { return r.Custodian },
	func(r domain.AssetRecord) string { return r.City },
	func(r domain.AssetRecord) string { return r.TagNumber },
	func(r domain.AssetRecord) string { return r.Category },
	func(r domain.AssetRecord) string { return r.Manufacturer },
}

func containsFolded(haystack, needle string) bool {
	return needle != "" && strings.Contains(haystack, needle)
}

// Search returns the assets whose searchable fields contain term, ignoring
// case. When the whole term matches nothing, assets matching any of its
// words of MinWordLength runes or more are returned instead. A positive
// limit caps the result.
func (a *Analyzer) Search(term string, limit int) []domain.AssetRecord {
	out := []domain.AssetRecord{}
	term = strings.TrimSpace(term)
	if term == "" {
		return out
	}

	fold := cases.Fold()
	folded := make([][]string, len(a.records))
	for i, r := range a.records {
		values := make([]string, len(searchFields))
		for j, f := range searchFields {
			values[j] = fold.String(f(r))
		}
		folded[i] = values
	}

	match := func(needles []string) []domain.AssetRecord {
		hits := []domain.AssetRecord{}
		for i, values := range folded {
			if anyContains(values, needles) {
				hits = append(hits, a.records[i])
				if limit > 0 && len(hits) >= limit {
					break
				}
			}
		}
		return hits
	}

	out = match([]string{fold.String(term)})
	if len(out) > 0 {
		return out
	}

	var words []string
	for _, w := range strings.Fields(term) {
		if utf8.RuneCountInString(w) >= MinWordLength {
			words = append(words, fold.String(w))
		}
	}
	if len(words) == 0 {
		return out
	}
	return match(words)
}

func anyContains(values, needles []string) bool {
	for _, v := range values {
		for _, n := range needles {
			if containsFolded(v, n) {
				return true
			}
		}
	}
	return false
}
