package exporter

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVWriter_Write(t *testing.T) {
	tests := []struct {
		name     string
		options  WriteOptions
		expected string
	}{
		{
			name: "headers and records",
			options: WriteOptions{
				Headers: []string{"Key", "Cost"},
				Records: [][]string{{"Riyadh", "30000.00"}, {"Jeddah, KSA", "1200.00"}},
			},
			expected: "Key,Cost\nRiyadh,30000.00\n\"Jeddah, KSA\",1200.00\n",
		},
		{
			name: "bom prefix",
			options: WriteOptions{
				Headers:   []string{"المدينة"},
				Records:   [][]string{{"الرياض"}},
				BOMPrefix: true,
			},
			expected: "\xEF\xBB\xBFالمدينة\nالرياض\n",
		},
		{
			name: "append skips bom and headers",
			options: WriteOptions{
				Headers:   []string{"Key"},
				Records:   [][]string{{"x"}},
				Append:    true,
				BOMPrefix: true,
			},
			expected: "x\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, NewCSVWriter("", nil).Write(&buf, tt.options))
			assert.Equal(t, tt.expected, buf.String())
		})
	}
}

func TestCSVWriter_WriteCSV(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(dir, nil)

	require.NoError(t, w.WriteReport("reports/years.csv", Report{
		Headers: []string{"Service_Year", "Count"},
		Records: [][]string{{"2020", "1"}},
	}))
	require.NoError(t, w.WriteCSV("reports/years.csv", WriteOptions{
		Records: [][]string{{"2021", "3"}},
		Append:  true,
	}))

	data, err := os.ReadFile(filepath.Join(dir, "reports", "years.csv"))
	require.NoError(t, err)
	assert.Equal(t, "\xEF\xBB\xBFService_Year,Count\n2020,1\n2021,3\n", string(data))
}

func TestCSVWriter_AbsolutePath(t *testing.T) {
	target := filepath.Join(t.TempDir(), "out.csv")

	require.NoError(t, NewCSVWriter("/does/not/matter", nil).WriteCSV(target, WriteOptions{
		Headers: []string{"a"},
	}))

	_, err := os.Stat(target)
	assert.NoError(t, err)
}
