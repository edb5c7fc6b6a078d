package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msydata/dashboard/pkg/domain/entities"
)

func revenueSeries(months []entities.MonthLabel, values ...int64) []entities.RevenuePoint {
	series := make([]entities.RevenuePoint, len(values))
	for i, v := range values {
		series[i] = entities.RevenuePoint{Month: months[i], TotalRevenue: decimal.NewFromInt(v)}
	}
	return series
}

var window = []entities.MonthLabel{"May", "June", "July", "August", "September", "October"}

func TestForecastService_Forecast(t *testing.T) {
	service := NewForecastService()

	t.Run("exact linear series", func(t *testing.T) {
		forecast, err := service.Forecast(revenueSeries(window, 10, 20, 30, 40, 50, 60))
		require.NoError(t, err)

		assert.InDelta(t, 10, forecast.Line.Slope, 1e-9)
		assert.InDelta(t, 10, forecast.Line.Intercept, 1e-9)
		assert.InDelta(t, 70, forecast.Predicted, 1e-9)
		assert.InDelta(t, 0, forecast.ResidualStd, 1e-9)
		assert.InDelta(t, forecast.Predicted, forecast.Optimistic, 1e-9)
		assert.InDelta(t, forecast.Predicted, forecast.Pessimistic, 1e-9)
		assert.Equal(t, "Nov", forecast.NextLabel)
	})

	t.Run("noisy series bands by residual std", func(t *testing.T) {
		forecast, err := service.Forecast(revenueSeries(window, 10, 30, 10, 30, 10, 30))
		require.NoError(t, err)

		assert.Greater(t, forecast.ResidualStd, 0.0)
		assert.InDelta(t, forecast.Predicted+forecast.ResidualStd, forecast.Optimistic, 1e-9)
		assert.InDelta(t, forecast.Predicted-forecast.ResidualStd, forecast.Pessimistic, 1e-9)
	})

	t.Run("single point is flat", func(t *testing.T) {
		forecast, err := service.Forecast(revenueSeries([]entities.MonthLabel{"December"}, 500))
		require.NoError(t, err)

		assert.Equal(t, 0.0, forecast.Line.Slope)
		assert.Equal(t, 500.0, forecast.Predicted)
		assert.Equal(t, "Jan", forecast.NextLabel)
	})

	t.Run("empty series", func(t *testing.T) {
		_, err := service.Forecast(nil)
		assert.EqualError(t, err, "revenue series is empty")
	})

	t.Run("bad month label", func(t *testing.T) {
		_, err := service.Forecast(revenueSeries([]entities.MonthLabel{"Smarch"}, 1))
		assert.EqualError(t, err, "invalid month label: Smarch")
	})
}

func TestNextMonthLabel(t *testing.T) {
	testCases := []struct {
		month    entities.MonthLabel
		expected string
	}{
		{"October", "Nov"},
		{"November", "Dec"},
		{"December", "Jan"},
		{"January", "Feb"},
	}

	for _, tc := range testCases {
		t.Run(string(tc.month), func(t *testing.T) {
			label, err := NextMonthLabel(tc.month)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, label)
		})
	}
}

func TestResidualStd(t *testing.T) {
	// Residuals against a flat line at 20 are -10 and +10.
	std := ResidualStd([]float64{10, 30}, entities.TrendLine{Intercept: 20})
	assert.InDelta(t, 10, std, 1e-9)
	assert.Equal(t, 0.0, ResidualStd(nil, entities.TrendLine{}))
}
