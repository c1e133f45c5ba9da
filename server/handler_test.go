package server_test

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/yuanzh/investlib/server"
)

func newTestHandler() (*server.Handler, *server.MemoryCache) {
	cache := server.NewMemoryCache()
	return server.NewHandler(zap.NewNop(), cache), cache
}

func postJSON(t *testing.T, h http.Handler, url string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, url, bytes.NewBuffer(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestFinalBalance_OK(t *testing.T) {
	t.Parallel()

	h, cache := newTestHandler()
	body := []byte(`{
		"year_return": 10,
		"monthly_reserve": 500,
		"initial_investment": 10000,
		"reserve_periods": 10
	}`)

	w := postJSON(t, h.Mux(), "/api/final_balance", body)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Result struct {
			FinalBalance   float64 `json:"final_balance"`
			TotalPrincipal float64 `json:"total_principal"`
			MonthlyData    []struct {
				Balance float64 `json:"balance"`
			} `json:"monthly_data"`
		} `json:"result"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Result.TotalPrincipal != 10000+500*120 {
		t.Fatalf("total principal %v, want %v", resp.Result.TotalPrincipal, 10000+500*120)
	}
	if resp.Result.FinalBalance <= resp.Result.TotalPrincipal {
		t.Fatalf("final balance %v should exceed principal at positive return", resp.Result.FinalBalance)
	}
	if len(resp.Result.MonthlyData) != 121 {
		t.Fatalf("ledger rows %d, want 121", len(resp.Result.MonthlyData))
	}
	if cache.Len() != 1 {
		t.Fatalf("cache entries %d, want 1", cache.Len())
	}
}

func TestFinalBalance_CacheHit(t *testing.T) {
	t.Parallel()

	h, cache := newTestHandler()
	body := []byte(`{"year_return": 5, "monthly_reserve": 100, "reserve_periods": 5}`)

	first := postJSON(t, h.Mux(), "/api/final_balance", body)
	second := postJSON(t, h.Mux(), "/api/final_balance", body)

	if first.Code != http.StatusOK || second.Code != http.StatusOK {
		t.Fatalf("expected 200s, got %d and %d", first.Code, second.Code)
	}
	if !bytes.Equal(first.Body.Bytes(), second.Body.Bytes()) {
		t.Fatalf("cached response differs from computed response")
	}
	if cache.Len() != 1 {
		t.Fatalf("cache entries %d, want 1", cache.Len())
	}
}

func TestFinalBalance_MethodNotAllowed(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/api/final_balance", nil)
	w := httptest.NewRecorder()
	h.Mux().ServeHTTP(w, req)
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", w.Code)
	}
}

func TestFinalBalance_BadRequest(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler()
	w := postJSON(t, h.Mux(), "/api/final_balance", []byte(`{invalid-json}`))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	w = postJSON(t, h.Mux(), "/api/final_balance", []byte(`{"year_return": -5, "reserve_periods": 5}`))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for negative return, got %d", w.Code)
	}
}

func TestPresentData_AmountTarget(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler()
	body := []byte(`{
		"year_return": 10,
		"reserve_periods": 10,
		"target_amount": 100000
	}`)

	w := postJSON(t, h.Mux(), "/api/present_data?target=amount", body)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		BackToPresent float64         `json:"back_to_present"`
		ChartData     json.RawMessage `json:"chart_data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.BackToPresent <= 0 {
		t.Fatalf("required payment %v, want positive", resp.BackToPresent)
	}
	if string(resp.ChartData) == "null" {
		t.Fatalf("expected chart data for a positive horizon")
	}
}

func TestPresentData_RateTarget(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler()
	body := []byte(`{
		"monthly_reserve": 2000,
		"reserve_periods": 20,
		"target_amount": 5000000
	}`)

	w := postJSON(t, h.Mux(), "/api/present_data?target=rate", body)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		BackToPresent float64 `json:"back_to_present"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if math.Abs(resp.BackToPresent-0.202) > 2e-3 {
		t.Fatalf("solved annual rate %v, want ~0.202", resp.BackToPresent)
	}
}

func TestPresentData_HorizonTarget(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler()
	body := []byte(`{
		"year_return": 6,
		"monthly_reserve": 400,
		"initial_investment": 1000,
		"reserve_periods": 1,
		"target_amount": 50000
	}`)

	w := postJSON(t, h.Mux(), "/api/present_data?target=horizon", body)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		BackToPresent float64 `json:"back_to_present"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.BackToPresent < 1 || resp.BackToPresent > 50 {
		t.Fatalf("solved horizon %v years looks implausible", resp.BackToPresent)
	}
}

func TestPresentData_UnknownTarget(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler()
	body := []byte(`{"reserve_periods": 5, "target_amount": 1000}`)
	w := postJSON(t, h.Mux(), "/api/present_data?target=velocity", body)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestMarketSummary_OK(t *testing.T) {
	t.Parallel()

	type quote struct {
		Date  string  `json:"date"`
		Close float64 `json:"close"`
	}
	quotes := make([]quote, 0, 260)
	day := time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)
	price := 100.0
	for i := 0; i < 260; i++ {
		quotes = append(quotes, quote{Date: day.Format("2006-01-02"), Close: price})
		price *= 1.0004
		day = day.AddDate(0, 0, 1)
	}
	payload, err := json.Marshal(map[string]any{
		"indices": []map[string]any{
			{"symbol": "^TEST", "name": "Test Index", "quotes": quotes},
		},
	})
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	body := payload

	h, _ := newTestHandler()
	w := postJSON(t, h.Mux(), "/api/market_summary", body)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Indices []struct {
			AnnualReturn     float64 `json:"annual_return"`
			AnnualVolatility float64 `json:"annual_volatility"`
		} `json:"indices"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Indices) != 1 {
		t.Fatalf("got %d indices, want 1", len(resp.Indices))
	}
	if resp.Indices[0].AnnualReturn <= 0 {
		t.Fatalf("annual return %v, want positive", resp.Indices[0].AnnualReturn)
	}
	if resp.Indices[0].AnnualVolatility > 1e-6 {
		t.Fatalf("volatility %v, want ~0 for constant growth", resp.Indices[0].AnnualVolatility)
	}
}

func TestMarketSummary_EmptyRequest(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler()
	w := postJSON(t, h.Mux(), "/api/market_summary", []byte(`{"indices":[]}`))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	h.Mux().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}
