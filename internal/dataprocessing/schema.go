package dataprocessing

import (
	"strings"
)

// FieldKey is the canonical name of a register field, independent of the
// language or spelling used in the workbook header.
type FieldKey string

const (
	FieldTag                     FieldKey = "tag_number"
	FieldDescription             FieldKey = "description"
	FieldCustodian               FieldKey = "custodian"
	FieldCity                    FieldKey = "city"
	FieldManufacturer            FieldKey = "manufacturer"
	FieldCategory                FieldKey = "category"
	FieldAssetCode               FieldKey = "asset_code"
	FieldCost                    FieldKey = "cost"
	FieldDepreciation            FieldKey = "depreciation"
	FieldNetBookValue            FieldKey = "net_book_value"
	FieldUsefulLife              FieldKey = "useful_life"
	FieldQuantity                FieldKey = "quantity"
	FieldResidualValue           FieldKey = "residual_value"
	FieldAccumulatedDepreciation FieldKey = "accumulated_depreciation"
	FieldInService               FieldKey = "in_service"
)

// Columns written by the metric stage.
const (
	ColumnAge              = "Asset_Age"
	ColumnDepreciationRate = "Depreciation_Rate"
	ColumnCondition        = "Asset_Condition"
	ColumnValueTier        = "Value_Category"
	ColumnRemainingLife    = "Remaining_Life"
	ColumnServiceYear      = "Service_Year"
)

// FieldRole decides how a column's cells are coerced.
type FieldRole uint8

const (
	RoleText FieldRole = iota
	RoleNumber
	RoleDate
)

// Field describes one canonical field and the header labels it is known by.
type Field struct {
	Key     FieldKey
	Role    FieldRole
	Aliases []string
}

// Schema maps canonical fields to the labels used by source workbooks.
type Schema struct {
	Fields []Field
}

// DefaultSchema recognizes the English and Arabic headers of the register
// export.
func DefaultSchema() *Schema {
	return &Schema{Fields: []Field{
		{Key: FieldTag, Role: RoleText, Aliases: []string{"Tag_number", "Tag Number", "رقم_البطاقة"}},
		{Key: FieldDescription, Role: RoleText, Aliases: []string{"Asset_Description", "Asset Description", "وصف_الأصل"}},
		{Key: FieldCustodian, Role: RoleText, Aliases: []string{"Custodian", "القسم_أو_الإدارة_المسؤولة"}},
		{Key: FieldCity, Role: RoleText, Aliases: []string{"City", "المدينة"}},
		{Key: FieldManufacturer, Role: RoleText, Aliases: []string{"Manufacturer", "المصنع"}},
		{Key: FieldCategory, Role: RoleText, Aliases: []string{"Level_1_FA_Module_-_English_Description", "Level 1 FA Module - English Description"}},
		{Key: FieldAssetCode, Role: RoleText, Aliases: []string{"Asset_Code_For_Accounting_Purpose", "Asset Code For Accounting Purpose"}},
		{Key: FieldCost, Role: RoleNumber, Aliases: []string{"Cost", "التكلفة"}},
		{Key: FieldDepreciation, Role: RoleNumber, Aliases: []string{"Depreciation_amount", "Depreciation Amount", "قسط_الاهلاك"}},
		{Key: FieldNetBookValue, Role: RoleNumber, Aliases: []string{"Net_Book_Value", "Net Book Value", "القيمة_الدفترية"}},
		{Key: FieldUsefulLife, Role: RoleNumber, Aliases: []string{"Useful_Life", "Useful Life", "العمر_الإنتاجي"}},
		{Key: FieldQuantity, Role: RoleNumber, Aliases: []string{"Quantity", "العدد"}},
		{Key: FieldResidualValue, Role: RoleNumber, Aliases: []string{"Residual_Value", "Residual Value", "القيمة_المتبقية_في_نهاية_العمر"}},
		{Key: FieldAccumulatedDepreciation, Role: RoleNumber, Aliases: []string{"Accumulated_Depreciation", "Accumulated Depreciation", "الاستهلاك_المتراكم"}},
		{Key: FieldInService, Role: RoleDate, Aliases: []string{"Date_Placed_in_Service", "Date Placed in Service", "تاريخ_الدخول_في_الخدمة"}},
	}}
}

// Field returns the definition of key.
func (s *Schema) Field(key FieldKey) (Field, bool) {
	for _, f := range s.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// Mapping binds canonical fields to the column labels present in one table.
type Mapping map[FieldKey]string

// Column returns the table column bound to key.
func (m Mapping) Column(key FieldKey) (string, bool) {
	col, ok := m[key]
	return col, ok
}

// Has reports whether every key is bound.
func (m Mapping) Has(keys ...FieldKey) bool {
	for _, k := range keys {
		if _, ok := m[k]; !ok {
			return false
		}
	}
	return true
}

// Resolve matches normalized column labels against the schema. The first
// column matching any alias wins; unmatched columns are left out.
func (s *Schema) Resolve(columns []string) Mapping {
	byKey := make(map[string]string, len(columns))
	for _, col := range columns {
		k := matchKey(col)
		if _, seen := byKey[k]; !seen {
			byKey[k] = col
		}
	}

	m := make(Mapping)
	for _, f := range s.Fields {
		for _, alias := range f.Aliases {
			if col, ok := byKey[matchKey(alias)]; ok {
				m[f.Key] = col
				break
			}
		}
	}
	return m
}

// matchKey reduces a label to a comparison key that ignores case, punctuation
// and underscore runs.
func matchKey(label string) string {
	n := NormalizeLabel(label)
	for strings.Contains(n, "__") {
		n = strings.ReplaceAll(n, "__", "_")
	}
	return strings.ToLower(strings.Trim(n, "_"))
}
