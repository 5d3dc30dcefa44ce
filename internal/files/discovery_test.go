package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fardash/internal/shared/testutil"
)

func TestDiscovery_FindWorkbooks(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteWorkbook(t, dir, "b_register.xlsx", testutil.RegisterSheet, [][]interface{}{{"Tag number"}, {"T-1"}})
	testutil.WriteWorkbook(t, dir, "a_register.xlsx", "Sheet1", [][]interface{}{{"Tag number"}})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "~$b_register.xlsx"), []byte("lock"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.csv"), []byte("a,b"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.xlsx"), []byte("not a zip"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "exports.xlsx"), 0755))

	logger, logs := testutil.NewTestLogger(t)
	got, err := NewDiscovery(dir, logger).FindWorkbooks(".")
	require.NoError(t, err)

	names := make([]string, len(got))
	for i, wb := range got {
		names[i] = wb.Name
	}
	assert.Equal(t, []string{"a_register.xlsx", "b_register.xlsx", "broken.xlsx"}, names)
	assert.Equal(t, []string{"Sheet1"}, got[0].Sheets)
	assert.Equal(t, []string{testutil.RegisterSheet}, got[1].Sheets)
	assert.Empty(t, got[2].Sheets)
	assert.Equal(t, filepath.Join(dir, "a_register.xlsx"), got[0].Path)
	assert.Positive(t, got[0].Size)
	assert.True(t, logs.ContainsMessage("Unreadable workbook"))
}

func TestDiscovery_MissingDirectory(t *testing.T) {
	_, err := NewDiscovery(t.TempDir(), nil).FindWorkbooks("absent")
	assert.Error(t, err)
}
