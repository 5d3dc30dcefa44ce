package exporter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected string
	}{
		{"zero value", 0, "0.00"},
		{"integer", 123, "123.00"},
		{"one decimal", 13.4, "13.40"},
		{"rounds", 2.345678, "2.35"},
		{"negative", -5, "-5.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatFloat(tt.input))
		})
	}
}

func TestFormatOptionalAndDates(t *testing.T) {
	life := 2.5
	assert.Equal(t, "2.50", formatOptionalFloat(&life))
	assert.Equal(t, "", formatOptionalFloat(nil))

	day := time.Date(2022, 3, 10, 0, 0, 0, 0, time.UTC)
	stamp := time.Date(2022, 3, 10, 8, 30, 0, 0, time.UTC)
	assert.Equal(t, "2022-03-10", formatDate(&day))
	assert.Equal(t, "2022-03-10 08:30:00", formatDate(&stamp))
	assert.Equal(t, "", formatDate(nil))

	assert.Equal(t, 5, cellValue(5))
}
