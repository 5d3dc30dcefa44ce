package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

// RegisterSheet is the sheet name used by the register fixture.
const RegisterSheet = "FAR as of 30 Dec 23"

// RegisterClock is the "now" the register fixture's expected ages assume.
var RegisterClock = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// RegisterHeaders are the header labels of the register fixture, spelled the
// way the export writes them.
var RegisterHeaders = []interface{}{
	"Tag number",
	"Asset Description",
	"Custodian",
	"City",
	"Manufacturer",
	"Level 1 FA Module - English Description",
	"Cost",
	"Depreciation amount",
	"Net Book Value",
	"Useful Life",
	"Date Placed in Service",
}

// RegisterRows returns the fixture data rows. The fourth row is blank and
// the fifth uses placeholder text for its description and custodian.
func RegisterRows() [][]interface{} {
	return [][]interface{}{
		{"T-001", "Dell Laptop", "IT", "Riyadh", "Dell", "Computers", 5000, 4000, 1000, 5, "01/01/2020"},
		{"T-002", "Office Desk", "Admin", "Jeddah", "Ikea", "Furniture", 1200, 0, 1200, 10, "15/06/2023"},
		{"T-003", "Server Rack", "IT", "Riyadh", "HP", "Computers", 25000, 5000, 20000, "N/A", "2022-03-10"},
		{"  "},
		{"T-004", "Not Available", "nan", "Dammam", "", "Vehicles", "12,500", 12500, 0, 4, ""},
	}
}

// WriteWorkbook saves rows, starting at A1, to a new workbook in dir.
func WriteWorkbook(t *testing.T, dir, name, sheet string, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		t.Fatalf("failed to rename sheet: %v", err)
	}
	for r, row := range rows {
		for c, val := range row {
			if val == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				t.Fatalf("bad coordinates: %v", err)
			}
			if err := f.SetCellValue(sheet, cell, val); err != nil {
				t.Fatalf("failed to set %s: %v", cell, err)
			}
		}
	}

	path := filepath.Join(dir, name)
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save workbook: %v", err)
	}
	return path
}

// WriteRegister saves the register fixture (title row, header row, data) to
// a temporary directory and returns its path.
func WriteRegister(t *testing.T) string {
	t.Helper()

	rows := [][]interface{}{{"Fixed Asset Register"}, RegisterHeaders}
	rows = append(rows, RegisterRows()...)
	return WriteWorkbook(t, t.TempDir(), "assetv1.xlsx", RegisterSheet, rows)
}
