package entities

// TrendLine is a fitted degree-1 polynomial over month index positions
type TrendLine struct {
	Slope     float64
	Intercept float64
}

// At evaluates the line at index x
func (l TrendLine) At(x float64) float64 {
	return l.Slope*x + l.Intercept
}

// RevenueForecast is the next-month projection with its error band
type RevenueForecast struct {
	Line        TrendLine
	ResidualStd float64
	NextLabel   string
	Predicted   float64
	Optimistic  float64
	Pessimistic float64
}
