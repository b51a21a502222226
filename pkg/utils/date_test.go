package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresetRange(t *testing.T) {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	// Meio-dia de uma quarta-feira em UTC (9h em São Paulo)
	now := time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		preset       string
		expectedFrom time.Time
		expectedTo   time.Time
		expectError  bool
	}{
		{
			name:         "Hoje retorna apenas o dia corrente",
			preset:       PresetToday,
			expectedFrom: time.Date(2024, 5, 15, 0, 0, 0, 0, loc),
			expectedTo:   time.Date(2024, 5, 15, 0, 0, 0, 0, loc),
		},
		{
			name:         "Ontem retorna apenas o dia anterior",
			preset:       PresetYesterday,
			expectedFrom: time.Date(2024, 5, 14, 0, 0, 0, 0, loc),
			expectedTo:   time.Date(2024, 5, 14, 0, 0, 0, 0, loc),
		},
		{
			name:         "Sete dias é ancorado no fim de ontem",
			preset:       Preset7Days,
			expectedFrom: time.Date(2024, 5, 8, 0, 0, 0, 0, loc),
			expectedTo:   time.Date(2024, 5, 14, 0, 0, 0, 0, loc),
		},
		{
			name:         "Trinta dias é ancorado no fim de ontem",
			preset:       Preset30Days,
			expectedFrom: time.Date(2024, 4, 15, 0, 0, 0, 0, loc),
			expectedTo:   time.Date(2024, 5, 14, 0, 0, 0, 0, loc),
		},
		{
			name:        "Preset desconhecido retorna erro",
			preset:      "15d",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to, err := PresetRange(tt.preset, loc, now)

			if tt.expectError {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.True(t, tt.expectedFrom.Equal(from), "from esperado %s, obtido %s", tt.expectedFrom, from)
			assert.True(t, tt.expectedTo.Equal(to), "to esperado %s, obtido %s", tt.expectedTo, to)
		})
	}
}

func TestMonthToDateRange(t *testing.T) {
	loc := time.UTC
	now := time.Date(2024, 5, 15, 18, 30, 0, 0, loc)

	first, today := MonthToDateRange(loc, now)

	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, loc), first)
	assert.Equal(t, time.Date(2024, 5, 15, 0, 0, 0, 0, loc), today)
}

func TestDaysBetween(t *testing.T) {
	from := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	to := time.Date(2024, 5, 12, 23, 0, 0, 0, time.UTC)

	dates := DaysBetween(from, to)

	assert.Len(t, dates, 3)
	assert.Equal(t, time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC), dates[0])
	assert.Equal(t, time.Date(2024, 5, 12, 0, 0, 0, 0, time.UTC), dates[2])

	assert.Empty(t, DaysBetween(to, from))
}
