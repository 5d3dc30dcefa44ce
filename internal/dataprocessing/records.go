package dataprocessing

import (
	"strings"

	"fardash/pkg/contracts/domain"
)

// Records projects every table row onto an AssetRecord. Fields whose column
// is not mapped keep their zero value.
func Records(ds *Dataset) []domain.AssetRecord {
	t := ds.Table
	text := func(i int, key FieldKey) string {
		col, ok := ds.Columns.Column(key)
		if !ok {
			return ""
		}
		c := t.Cell(i, col)
		if c.IsEmpty() {
			return ""
		}
		return strings.TrimSpace(c.String())
	}
	number := func(i int, col string) (float64, bool) {
		return ParseNumber(t.Cell(i, col))
	}
	field := func(i int, key FieldKey) (float64, bool) {
		col, ok := ds.Columns.Column(key)
		if !ok {
			return 0, false
		}
		return number(i, col)
	}

	out := make([]domain.AssetRecord, t.Len())
	for i := range out {
		r := domain.AssetRecord{
			Row:          i + 1,
			TagNumber:    text(i, FieldTag),
			Description:  text(i, FieldDescription),
			Custodian:    text(i, FieldCustodian),
			City:         text(i, FieldCity),
			Manufacturer: text(i, FieldManufacturer),
			Category:     text(i, FieldCategory),
			AssetCode:    text(i, FieldAssetCode),
		}
		r.Cost, _ = field(i, FieldCost)
		r.Depreciation, _ = field(i, FieldDepreciation)
		r.NetBookValue, _ = field(i, FieldNetBookValue)
		if life, ok := field(i, FieldUsefulLife); ok {
			r.UsefulLife = &life
		}
		if col, ok := ds.Columns.Column(FieldInService); ok {
			if c := t.Cell(i, col); c.Kind == CellDate {
				d := c.Date
				r.InService = &d
			}
		}

		r.Age, _ = number(i, ColumnAge)
		r.DepreciationRate, _ = number(i, ColumnDepreciationRate)
		if c := t.Cell(i, ColumnCondition); c.Kind == CellText {
			r.Condition = domain.Condition(c.Text)
		}
		if c := t.Cell(i, ColumnValueTier); c.Kind == CellText {
			r.ValueTier = domain.ValueTier(c.Text)
		}
		if rem, ok := number(i, ColumnRemainingLife); ok {
			r.RemainingLife = &rem
		}
		if y, ok := number(i, ColumnServiceYear); ok {
			r.ServiceYear = int(y)
		}
		out[i] = r
	}
	return out
}
