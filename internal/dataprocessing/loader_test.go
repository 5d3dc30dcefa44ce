package dataprocessing

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fardash/internal/shared/testutil"
)

func TestLoader_Load(t *testing.T) {
	path := testutil.WriteRegister(t)
	loader := NewLoader(nil)

	table, err := loader.Load(context.Background(), Source{Path: path, Sheet: testutil.RegisterSheet})
	require.NoError(t, err)

	assert.Equal(t, "Tag number", table.Columns[0])
	assert.Len(t, table.Columns, len(testutil.RegisterHeaders))
	assert.Equal(t, len(testutil.RegisterRows()), table.Len())

	// Raw values survive: numbers are unformatted, text is untouched.
	assert.Equal(t, "T-001", table.Cell(0, "Tag number").Text)
	assert.Equal(t, "5000", table.Cell(0, "Cost").Text)
	assert.Equal(t, "12,500", table.Cell(4, "Cost").Text)
	assert.True(t, table.Cell(3, "Tag number").IsEmpty())
}

func TestLoader_DefaultsToFirstSheet(t *testing.T) {
	path := testutil.WriteRegister(t)

	table, err := NewLoader(nil).Load(context.Background(), Source{Path: path})

	require.NoError(t, err)
	assert.Equal(t, len(testutil.RegisterRows()), table.Len())
}

func TestLoader_HeaderRow(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteWorkbook(t, dir, "flat.xlsx", "Sheet1", [][]interface{}{
		{"Tag number", "Cost"},
		{"A", 10},
	})

	table, err := NewLoader(nil).Load(context.Background(), Source{Path: path, Sheet: "Sheet1", HeaderRow: 1})

	require.NoError(t, err)
	assert.Equal(t, []string{"Tag number", "Cost"}, table.Columns)
	assert.Equal(t, 1, table.Len())
}

func TestLoader_DataUnavailable(t *testing.T) {
	dir := t.TempDir()
	headerOnly := testutil.WriteWorkbook(t, dir, "empty.xlsx", "FAR", [][]interface{}{
		{"Title"},
		{"Tag number", "Cost"},
	})
	notWorkbook := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(notWorkbook, []byte("hello"), 0644))

	tests := []struct {
		name   string
		src    Source
		reason string
	}{
		{"missing file", Source{Path: filepath.Join(dir, "missing.xlsx")}, "invalid workbook"},
		{"wrong extension", Source{Path: notWorkbook}, "invalid workbook"},
		{"missing sheet", Source{Path: headerOnly, Sheet: "Nope"}, "sheet not found"},
		{"no data rows", Source{Path: headerOnly, Sheet: "FAR"}, "sheet has no data rows"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLoader(nil).Load(context.Background(), tt.src)

			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrDataUnavailable))

			var loadErr *LoadError
			require.True(t, errors.As(err, &loadErr))
			assert.Equal(t, tt.reason, loadErr.Reason)
		})
	}
}

func TestLoader_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLoader(nil).Load(ctx, Source{Path: testutil.WriteRegister(t)})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestListSheets(t *testing.T) {
	sheets, err := ListSheets(testutil.WriteRegister(t))

	require.NoError(t, err)
	assert.Equal(t, []string{testutil.RegisterSheet}, sheets)
}
