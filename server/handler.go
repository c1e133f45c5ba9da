// Package server exposes the planning and solving tools over a JSON HTTP
// API: forward projections, back-solves for contribution/rate/horizon, and
// market-index analysis.
package server

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/yuanzh/investlib/annuity"
	"github.com/yuanzh/investlib/marketdata"
	"github.com/yuanzh/investlib/plan"
)

// Handler serves the JSON API.
type Handler struct {
	log   *zap.Logger
	cache Cache
}

func NewHandler(log *zap.Logger, cache Cache) *Handler {
	return &Handler{log: log, cache: cache}
}

// Mux registers all routes.
func (h *Handler) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", h.Health)
	mux.HandleFunc("/api/final_balance", h.FinalBalance)
	mux.HandleFunc("/api/present_data", h.PresentData)
	mux.HandleFunc("/api/market_summary", h.MarketSummary)
	return mux
}

// projectionRequest mirrors the upstream API payload. Percent fields are
// converted to decimals on the way in.
type projectionRequest struct {
	YearReturn        float64 `json:"year_return"` // percent
	MonthlyReserve    float64 `json:"monthly_reserve"`
	InitialInvestment float64 `json:"initial_investment"`
	ReservePeriods    int     `json:"reserve_periods"` // years
	Increment         float64 `json:"increment"`
	IncrementPeriod   int     `json:"incre_period"`
	TargetAmount      float64 `json:"target_amount"`
}

func (r projectionRequest) projection() plan.Projection {
	return plan.Projection{
		AnnualReturn:        r.YearReturn / 100.0,
		HorizonYears:        r.ReservePeriods,
		MonthlyContribution: r.MonthlyReserve,
		InitialBalance:      r.InitialInvestment,
		Increment:           r.Increment,
		IncrementYears:      r.IncrementPeriod,
	}
}

type monthRow struct {
	Month        int     `json:"month"`
	Principal    float64 `json:"principal"`
	Return       float64 `json:"return"`
	Balance      float64 `json:"balance"`
	Contribution float64 `json:"investment"`
}

type projectionResponse struct {
	FinalBalance   float64    `json:"final_balance"`
	TotalPrincipal float64    `json:"total_principal"`
	TotalReturn    float64    `json:"total_return"`
	MonthlyData    []monthRow `json:"monthly_data"`
}

func toProjectionResponse(res plan.ProjectionResult) projectionResponse {
	rows := make([]monthRow, 0, len(res.Monthly))
	for _, pt := range res.Monthly {
		rows = append(rows, monthRow{
			Month:        pt.Month,
			Principal:    round2(pt.Principal),
			Return:       round2(pt.Return),
			Balance:      round2(pt.Balance),
			Contribution: round2(pt.Contribution),
		})
	}
	return projectionResponse{
		FinalBalance:   round2(res.FinalBalance),
		TotalPrincipal: round2(res.TotalPrincipal),
		TotalReturn:    round2(res.TotalReturn),
		MonthlyData:    rows,
	}
}

// Health is the liveness probe.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// FinalBalance runs a forward projection and returns the balance ledger.
// Responses are memoized: identical payloads hit the cache.
func (h *Handler) FinalBalance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "unable to read request body", http.StatusBadRequest)
		return
	}

	cacheKey := "final_balance|" + string(body)
	if cached, ok := h.cache.Get(r.Context(), cacheKey); ok {
		h.log.Debug("final_balance cache hit")
		writeRawJSON(w, http.StatusOK, []byte(cached))
		return
	}

	var req projectionRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	start := time.Now()
	res, err := req.projection().Project()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	payload, err := json.Marshal(map[string]projectionResponse{"result": toProjectionResponse(res)})
	if err != nil {
		http.Error(w, "encoding failure", http.StatusInternalServerError)
		return
	}
	if err := h.cache.Set(r.Context(), cacheKey, string(payload)); err != nil {
		h.log.Warn("final_balance cache store failed", zap.Error(err))
	}

	h.log.Info("final_balance",
		zap.Float64("final_balance", res.FinalBalance),
		zap.Int("horizon_years", req.ReservePeriods),
		zap.Duration("elapsed", time.Since(start)))
	writeRawJSON(w, http.StatusOK, payload)
}

type presentDataResponse struct {
	BackToPresent float64             `json:"back_to_present"`
	ChartData     *projectionResponse `json:"chart_data"`
}

// PresentData back-solves the unknown selected by the "target" query
// parameter (amount, rate, or horizon) and re-projects with the solved
// value.
func (h *Handler) PresentData(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req projectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.TargetAmount <= 0 {
		http.Error(w, "target_amount must be positive", http.StatusBadRequest)
		return
	}

	months := req.ReservePeriods * 12
	annualReturn := req.YearReturn / 100.0
	monthlyRate, err := plan.MonthlyRate(annualReturn, plan.Geometric)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	target := r.URL.Query().Get("target")
	p := req.projection()
	var resp presentDataResponse

	switch target {
	case "amount":
		payment, err := plan.RequiredPayment(req.TargetAmount, monthlyRate, months, req.InitialInvestment)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		resp.BackToPresent = round2(payment)
		p.MonthlyContribution = payment

	case "rate":
		res, err := annuity.SolveRateBisection(annuity.Scenario{
			Target:       req.TargetAmount,
			Initial:      req.InitialInvestment,
			Contribution: req.MonthlyReserve,
			Periods:      months,
		}, annuity.Config{})
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		resp.BackToPresent = round6(res.AnnualRate)
		p.AnnualReturn = res.AnnualRate

	case "horizon":
		years, err := plan.RequiredHorizonYears(req.TargetAmount, monthlyRate, req.MonthlyReserve, req.InitialInvestment)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		resp.BackToPresent = float64(years)
		p.HorizonYears = years

	default:
		http.Error(w, "unknown target "+target, http.StatusBadRequest)
		return
	}

	// Horizon zero means the target is already met; there is nothing to
	// chart in that case.
	if p.HorizonYears > 0 && p.AnnualReturn >= 0 {
		chart, err := p.Project()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		pr := toProjectionResponse(chart)
		resp.ChartData = &pr
	}

	h.log.Info("present_data", zap.String("target", target), zap.Float64("back_to_present", resp.BackToPresent))
	writeJSON(w, http.StatusOK, resp)
}

type marketSeries struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Quotes []struct {
		Date  string  `json:"date"`
		Close float64 `json:"close"`
	} `json:"quotes"`
}

type marketSummaryRequest struct {
	Indices []marketSeries `json:"indices"`
}

type indexReturnRow struct {
	Symbol           string  `json:"symbol"`
	Name             string  `json:"name"`
	AnnualReturn     float64 `json:"annual_return"`
	TotalReturn      float64 `json:"total_return"`
	AnnualVolatility float64 `json:"annual_volatility"`
	LatestClose      float64 `json:"latest_close"`
	InitialClose     float64 `json:"initial_close"`
}

type marketSummaryResponse struct {
	Indices []indexReturnRow   `json:"indices"`
	Summary marketdata.Summary `json:"summary"`
}

// MarketSummary analyzes caller-supplied index price series.
func (h *Handler) MarketSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req marketSummaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.Indices) == 0 {
		http.Error(w, "no index series supplied", http.StatusBadRequest)
		return
	}

	results := make([]marketdata.IndexReturn, 0, len(req.Indices))
	for _, series := range req.Indices {
		quotes := make([]marketdata.Quote, 0, len(series.Quotes))
		for _, q := range series.Quotes {
			date, err := time.Parse("2006-01-02", q.Date)
			if err != nil {
				http.Error(w, "invalid quote date "+q.Date, http.StatusBadRequest)
				return
			}
			quotes = append(quotes, marketdata.Quote{Date: date, Close: q.Close})
		}
		res, err := marketdata.AnalyzeIndex(series.Symbol, series.Name, quotes)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		results = append(results, res)
	}

	summary, err := marketdata.Summarize(results)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rows := make([]indexReturnRow, 0, len(results))
	for _, res := range results {
		rows = append(rows, indexReturnRow{
			Symbol:           res.Symbol,
			Name:             res.Name,
			AnnualReturn:     round6(res.AnnualReturn),
			TotalReturn:      round6(res.TotalReturn),
			AnnualVolatility: round6(res.AnnualVolatility),
			LatestClose:      round2(res.LatestClose),
			InitialClose:     round2(res.InitialClose),
		})
	}

	h.log.Info("market_summary", zap.Int("indices", len(rows)))
	writeJSON(w, http.StatusOK, marketSummaryResponse{Indices: rows, Summary: summary})
}

// round2 rounds monetary values to 2 decimals for presentation.
func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// round6 rounds rates to 6 decimals for presentation.
func round6(v float64) float64 {
	return decimal.NewFromFloat(v).Round(6).InexactFloat64()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeRawJSON(w http.ResponseWriter, status int, payload []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(payload)
}
