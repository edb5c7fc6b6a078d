package services

import (
	"fmt"
	"math"
	"time"

	"github.com/msydata/dashboard/pkg/domain/entities"
)

// ForecastService projects next-month revenue from a linear trend
type ForecastService struct{}

// NewForecastService creates a forecast service
func NewForecastService() *ForecastService {
	return &ForecastService{}
}

// Forecast fits a least-squares line over index positions of the series,
// predicts the next index and bands it by the population standard deviation
// of the residuals
func (s *ForecastService) Forecast(series []entities.RevenuePoint) (*entities.RevenueForecast, error) {
	if len(series) == 0 {
		return nil, fmt.Errorf("revenue series is empty")
	}

	values := make([]float64, len(series))
	for i, point := range series {
		values[i] = point.TotalRevenue.InexactFloat64()
	}

	line := FitLine(values)
	std := ResidualStd(values, line)

	nextLabel, err := NextMonthLabel(series[len(series)-1].Month)
	if err != nil {
		return nil, err
	}

	predicted := line.At(float64(len(values)))
	return &entities.RevenueForecast{
		Line:        line,
		ResidualStd: std,
		NextLabel:   nextLabel,
		Predicted:   predicted,
		Optimistic:  predicted + std,
		Pessimistic: predicted - std,
	}, nil
}

// FitLine returns the ordinary least-squares line through (i, values[i]).
// A single point yields a flat line through it.
func FitLine(values []float64) entities.TrendLine {
	n := float64(len(values))
	if len(values) == 0 {
		return entities.TrendLine{}
	}

	var sumX, sumY float64
	for i, v := range values {
		sumX += float64(i)
		sumY += v
	}
	meanX := sumX / n
	meanY := sumY / n

	var sxx, sxy float64
	for i, v := range values {
		dx := float64(i) - meanX
		sxx += dx * dx
		sxy += dx * (v - meanY)
	}
	if sxx == 0 {
		return entities.TrendLine{Slope: 0, Intercept: meanY}
	}

	slope := sxy / sxx
	return entities.TrendLine{Slope: slope, Intercept: meanY - slope*meanX}
}

// ResidualStd returns the population standard deviation of actual minus fitted
func ResidualStd(values []float64, line entities.TrendLine) float64 {
	if len(values) == 0 {
		return 0
	}

	residuals := make([]float64, len(values))
	var sum float64
	for i, v := range values {
		residuals[i] = v - line.At(float64(i))
		sum += residuals[i]
	}
	mean := sum / float64(len(values))

	var ss float64
	for _, r := range residuals {
		ss += (r - mean) * (r - mean)
	}
	return math.Sqrt(ss / float64(len(values)))
}

// NextMonthLabel returns the three-letter label of the month after a full
// month name, wrapping December to January
func NextMonthLabel(month entities.MonthLabel) (string, error) {
	t, err := time.Parse("January", string(month))
	if err != nil {
		return "", fmt.Errorf("invalid month label: %s", month)
	}
	next := time.Month(int(t.Month())%12 + 1)
	return next.String()[:3], nil
}
