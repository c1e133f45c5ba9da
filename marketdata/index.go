package marketdata

import (
	"fmt"
	"math"
	"time"
)

// tradingDaysPerYear annualizes daily figures.
const tradingDaysPerYear = 252

// IndexReturn holds the analysis of a single index price series.
type IndexReturn struct {
	Symbol string
	Name   string
	// AnnualReturn is the geometric annualized return over the series.
	AnnualReturn float64
	// TotalReturn is last close over first close, minus one.
	TotalReturn float64
	// AnnualVolatility is the daily-return standard deviation scaled by
	// sqrt(252).
	AnnualVolatility float64
	LatestClose      float64
	InitialClose     float64
	Start            time.Time
	End              time.Time
	// TradingDays is the number of observations in the series.
	TradingDays int
}

// AnalyzeIndex computes return and volatility metrics for one price series.
// The series must hold at least two quotes with positive closes.
func AnalyzeIndex(symbol, name string, quotes []Quote) (IndexReturn, error) {
	if len(quotes) < 2 {
		return IndexReturn{}, fmt.Errorf("AnalyzeIndex: %s needs at least 2 quotes, got %d", symbol, len(quotes))
	}

	first, last := quotes[0], quotes[len(quotes)-1]
	if first.Close <= 0 {
		return IndexReturn{}, fmt.Errorf("AnalyzeIndex: %s has non-positive initial close %g", symbol, first.Close)
	}

	totalReturn := last.Close/first.Close - 1.0
	yearsPassed := float64(len(quotes)) / tradingDaysPerYear
	annualReturn := math.Pow(1.0+totalReturn, 1.0/yearsPassed) - 1.0

	dailyReturns := make([]float64, 0, len(quotes)-1)
	for i := 1; i < len(quotes); i++ {
		prev := quotes[i-1].Close
		if prev <= 0 {
			return IndexReturn{}, fmt.Errorf("AnalyzeIndex: %s has non-positive close %g on %s", symbol, prev, quotes[i-1].Date.Format("2006-01-02"))
		}
		dailyReturns = append(dailyReturns, quotes[i].Close/prev-1.0)
	}

	return IndexReturn{
		Symbol:           symbol,
		Name:             name,
		AnnualReturn:     annualReturn,
		TotalReturn:      totalReturn,
		AnnualVolatility: stddev(dailyReturns) * math.Sqrt(tradingDaysPerYear),
		LatestClose:      last.Close,
		InitialClose:     first.Close,
		Start:            first.Date,
		End:              last.Date,
		TradingDays:      len(quotes),
	}, nil
}

// Analyze runs AnalyzeIndex over every symbol in the feed's catalog and
// skips symbols the feed cannot serve.
func Analyze(feed PriceFeed, catalog map[string]string) []IndexReturn {
	results := make([]IndexReturn, 0, len(catalog))
	for symbol, name := range catalog {
		quotes, ok := feed.History(symbol)
		if !ok {
			continue
		}
		res, err := AnalyzeIndex(symbol, name, quotes)
		if err != nil {
			continue
		}
		results = append(results, res)
	}
	return results
}

// Summary aggregates analysis results across indices.
type Summary struct {
	AverageAnnualReturn float64
	MaxAnnualReturn     float64
	MinAnnualReturn     float64
	AverageVolatility   float64
	MaxVolatility       float64
	MinVolatility       float64
}

// Summarize computes cross-index summary statistics.
func Summarize(results []IndexReturn) (Summary, error) {
	if len(results) == 0 {
		return Summary{}, fmt.Errorf("Summarize: no results to summarize")
	}

	s := Summary{
		MaxAnnualReturn: math.Inf(-1),
		MinAnnualReturn: math.Inf(1),
		MaxVolatility:   math.Inf(-1),
		MinVolatility:   math.Inf(1),
	}
	for _, r := range results {
		s.AverageAnnualReturn += r.AnnualReturn
		s.AverageVolatility += r.AnnualVolatility
		s.MaxAnnualReturn = math.Max(s.MaxAnnualReturn, r.AnnualReturn)
		s.MinAnnualReturn = math.Min(s.MinAnnualReturn, r.AnnualReturn)
		s.MaxVolatility = math.Max(s.MaxVolatility, r.AnnualVolatility)
		s.MinVolatility = math.Min(s.MinVolatility, r.AnnualVolatility)
	}
	s.AverageAnnualReturn /= float64(len(results))
	s.AverageVolatility /= float64(len(results))
	return s, nil
}

func stddev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	var mean float64
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))

	var ss float64
	for _, x := range xs {
		d := x - mean
		ss += d * d
	}
	// Sample standard deviation, matching the upstream pandas default.
	return math.Sqrt(ss / float64(len(xs)-1))
}
