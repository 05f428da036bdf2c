package dataprocessing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aqcli/pkg/contracts/domain"
)

func readingsWithPM10(values ...float64) []domain.Reading {
	base := time.Date(2023, 1, 2, 8, 0, 0, 0, time.UTC)
	out := make([]domain.Reading, len(values))
	for i, v := range values {
		out[i] = reading(base.Add(time.Duration(i)*time.Hour), v)
	}
	return out
}

func TestSummarize(t *testing.T) {
	summary, err := Summarize(readingsWithPM10(10, 20, 30))
	require.NoError(t, err)

	assert.Equal(t, 20.0, summary.Mean)
	assert.Equal(t, 20.0, summary.Median)
	assert.Equal(t, 10.0, summary.Min)
	assert.Equal(t, 30.0, summary.Max)
	assert.Equal(t, 3, summary.Count)
	assert.Equal(t, domain.BandModerate, summary.Band)

	require.NotNil(t, summary.StdDev)
	assert.InDelta(t, 10.0, *summary.StdDev, 1e-9, "sample std dev of 10,20,30")
}

func TestSummarize_Bands(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   domain.QualityBand
	}{
		{name: "good", values: []float64{5, 10, 15}, want: domain.BandGood},
		{name: "moderate at boundary", values: []float64{20, 20}, want: domain.BandModerate},
		{name: "exceeds at threshold", values: []float64{50, 50}, want: domain.BandExceeds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary, err := Summarize(readingsWithPM10(tt.values...))
			require.NoError(t, err)
			assert.Equal(t, tt.want, summary.Band)
		})
	}
}

func TestSummarize_SingleReading(t *testing.T) {
	summary, err := Summarize(readingsWithPM10(42))
	require.NoError(t, err)

	assert.Equal(t, 42.0, summary.Mean)
	assert.Equal(t, 42.0, summary.Median)
	assert.Equal(t, 1, summary.Count)
	assert.Nil(t, summary.StdDev, "sample std dev undefined for one reading")
}

func TestSummarize_Empty(t *testing.T) {
	_, err := Summarize(nil)
	require.ErrorIs(t, err, ErrNoData)
}
