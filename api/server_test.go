package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/seenimoa/solarsim/internal/catalog"
	"github.com/seenimoa/solarsim/internal/config"
	"github.com/seenimoa/solarsim/internal/metrics"
	"github.com/seenimoa/solarsim/internal/simulator"
	"github.com/seenimoa/solarsim/pkg/models"
)

// ════════════════════════════════════════════════════════════════════
// Test Helpers
// ════════════════════════════════════════════════════════════════════

const scenarioABody = `{
	"latitude": 40,
	"longitude": -74,
	"avg_sun_hours_per_day": 5,
	"roof_size_m2": 20,
	"panel_efficiency": 20,
	"panel_wattage": 300,
	"price_per_watt": 2.5
}`

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Logging.Level = "error"
	return cfg
}

func testServer(t *testing.T) *Server {
	t.Helper()
	return testServerWith(t, testConfig())
}

func testServerWith(t *testing.T, cfg *config.Config) *Server {
	t.Helper()
	store, err := catalog.Open(context.Background(), ":memory:", time.Minute)
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return NewServer(cfg, store, metrics.New())
}

func do(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp
}

// decodeData re-marshals the envelope data into v.
func decodeData(t *testing.T, resp APIResponse, v interface{}) {
	t.Helper()
	raw, err := json.Marshal(resp.Data)
	if err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		t.Fatalf("decode data: %v", err)
	}
}

// ════════════════════════════════════════════════════════════════════
// Compatibility routes
// ════════════════════════════════════════════════════════════════════

func TestHealth(t *testing.T) {
	srv := testServer(t)

	for _, path := range []string{"/health", "/api/v1/health"} {
		t.Run(path, func(t *testing.T) {
			rec := do(t, srv, http.MethodGet, path, "")
			if rec.Code != http.StatusOK {
				t.Fatalf("status: got %d, want 200", rec.Code)
			}
			var got map[string]string
			if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
				t.Fatal(err)
			}
			if len(got) != 2 || got["status"] != "healthy" || got["service"] != "solar-simulator" {
				t.Errorf("body: got %v", got)
			}
		})
	}
}

func TestCalculate(t *testing.T) {
	srv := testServer(t)

	for _, path := range []string{"/calculate", "/api/v1/calculate"} {
		t.Run(path, func(t *testing.T) {
			rec := do(t, srv, http.MethodPost, path, scenarioABody)
			if rec.Code != http.StatusOK {
				t.Fatalf("status: got %d, want 200 (body %s)", rec.Code, rec.Body.String())
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type: got %q", ct)
			}

			var raw map[string]json.RawMessage
			if err := json.Unmarshal(rec.Body.Bytes(), &raw); err != nil {
				t.Fatal(err)
			}
			for _, key := range []string{
				"estimated_output_kwh", "estimated_cost_usd", "estimated_roi_years",
				"system_size_kw", "num_panels", "monthly_breakdown", "efficiency_factors",
			} {
				if _, ok := raw[key]; !ok {
					t.Errorf("response missing %q", key)
				}
			}

			var res models.SimulationResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
				t.Fatal(err)
			}
			if res.NumPanels != 11 {
				t.Errorf("NumPanels: got %d, want 11", res.NumPanels)
			}
			if res.SystemSizeKW != 3.3 {
				t.Errorf("SystemSizeKW: got %v, want 3.3", res.SystemSizeKW)
			}
			if res.EstimatedCostUSD != 8250 {
				t.Errorf("EstimatedCostUSD: got %v, want 8250", res.EstimatedCostUSD)
			}
			if len(res.MonthlyBreakdown) != 12 || res.MonthlyBreakdown[6].Month != "July" {
				t.Errorf("MonthlyBreakdown: got %+v", res.MonthlyBreakdown)
			}
		})
	}
}

func TestCalculateValidationErrors(t *testing.T) {
	srv := testServer(t)

	tests := []struct {
		name string
		body string
		want string
	}{
		{"roof too small", strings.Replace(scenarioABody, `"roof_size_m2": 20`, `"roof_size_m2": 1.0`, 1),
			"Roof size too small for any panels"},
		{"zero efficiency", strings.Replace(scenarioABody, `"panel_efficiency": 20`, `"panel_efficiency": 0`, 1),
			"Panel efficiency must be between 0 and 100"},
		{"negative roof", strings.Replace(scenarioABody, `"roof_size_m2": 20`, `"roof_size_m2": -3`, 1),
			"Roof size must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, srv, http.MethodPost, "/calculate", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status: got %d, want 400", rec.Code)
			}
			var got map[string]string
			if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
				t.Fatal(err)
			}
			if len(got) != 1 || got["error"] != tt.want {
				t.Errorf("body: got %v, want {error: %q}", got, tt.want)
			}
		})
	}
}

func TestCalculateMissingFields(t *testing.T) {
	srv := testServer(t)

	tests := []struct {
		name string
		body string
		want string
	}{
		{"empty object", `{}`, `invalid request body: missing field "latitude"`},
		{"no site", `{"roof_size_m2": 20, "panel_efficiency": 20, "panel_wattage": 300, "price_per_watt": 2.5}`,
			`invalid request body: missing field "latitude"`},
		{"no sun hours", strings.Replace(scenarioABody, `"avg_sun_hours_per_day": 5,`, ``, 1),
			`invalid request body: missing field "avg_sun_hours_per_day"`},
		{"null wattage", strings.Replace(scenarioABody, `"panel_wattage": 300`, `"panel_wattage": null`, 1),
			`invalid request body: missing field "panel_wattage"`},
	}

	for _, path := range []string{"/calculate", "/api/v1/calculate"} {
		for _, tt := range tests {
			t.Run(path+" "+tt.name, func(t *testing.T) {
				rec := do(t, srv, http.MethodPost, path, tt.body)
				if rec.Code != http.StatusBadRequest {
					t.Fatalf("status: got %d, want 400 (%s)", rec.Code, rec.Body.String())
				}
				var got ErrorResponse
				if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
					t.Fatal(err)
				}
				if got.Error != tt.want {
					t.Errorf("error: got %q, want %q", got.Error, tt.want)
				}
			})
		}
	}
}

func TestCalculateTrailingData(t *testing.T) {
	srv := testServer(t)

	for _, body := range []string{scenarioABody + ` trailing`, scenarioABody + `}`, scenarioABody + scenarioABody} {
		rec := do(t, srv, http.MethodPost, "/calculate", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status: got %d, want 400", rec.Code)
			continue
		}
		var got ErrorResponse
		if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
			t.Fatal(err)
		}
		if got.Error != "invalid request body: unexpected data after JSON value" {
			t.Errorf("error: got %q", got.Error)
		}
	}

	// Trailing whitespace is fine.
	if rec := do(t, srv, http.MethodPost, "/calculate", scenarioABody+"\n  \n"); rec.Code != http.StatusOK {
		t.Errorf("trailing whitespace: got %d, want 200", rec.Code)
	}
}

func TestCalculateMalformedBody(t *testing.T) {
	srv := testServer(t)

	for _, body := range []string{`not json`, `{"panel_wattage": 300.5}`, `{"latitude": "north"}`} {
		rec := do(t, srv, http.MethodPost, "/calculate", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status got %d, want 400", body, rec.Code)
			continue
		}
		var got ErrorResponse
		if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
			t.Fatal(err)
		}
		if !strings.HasPrefix(got.Error, "invalid request body") {
			t.Errorf("%s: error got %q", body, got.Error)
		}
	}
}

func TestCalculateMethodNotAllowed(t *testing.T) {
	srv := testServer(t)
	rec := do(t, srv, http.MethodGet, "/calculate", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status: got %d, want 405", rec.Code)
	}
}

func TestCalculateConcurrent(t *testing.T) {
	srv := testServer(t)

	var wg sync.WaitGroup
	errs := make(chan string, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec := do(t, srv, http.MethodPost, "/calculate", scenarioABody)
			if rec.Code != http.StatusOK {
				errs <- fmt.Sprintf("status %d", rec.Code)
			}
		}()
	}
	wg.Wait()
	close(errs)
	for e := range errs {
		t.Error(e)
	}
}

func TestCORSPreflight(t *testing.T) {
	srv := testServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/calculate", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got == "" {
		t.Error("expected Access-Control-Allow-Origin header")
	}
}

// ════════════════════════════════════════════════════════════════════
// Batch
// ════════════════════════════════════════════════════════════════════

func TestBatch(t *testing.T) {
	srv := testServer(t)

	bad := strings.Replace(scenarioABody, `"roof_size_m2": 20`, `"roof_size_m2": 0`, 1)
	body := fmt.Sprintf(`{"requests":[%s,%s,%s]}`, scenarioABody, bad, scenarioABody)

	rec := do(t, srv, http.MethodPost, "/api/v1/calculate/batch", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200 (%s)", rec.Code, rec.Body.String())
	}
	resp := decodeResponse(t, rec)
	if !resp.Success {
		t.Fatalf("expected success, got %q", resp.Error)
	}

	var items []simulator.BatchItem
	decodeData(t, resp, &items)
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3", len(items))
	}
	if items[0].Result == nil || items[2].Result == nil {
		t.Error("valid items should have results")
	}
	if items[1].Result != nil || items[1].Kind != simulator.KindInvalidRoofSize {
		t.Errorf("item 1: got %+v", items[1])
	}
}

func TestBatchLimits(t *testing.T) {
	cfg := testConfig()
	cfg.Batch.MaxRequests = 2
	srv := testServerWith(t, cfg)

	rec := do(t, srv, http.MethodPost, "/api/v1/calculate/batch", `{"requests":[]}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty batch: got %d, want 400", rec.Code)
	}

	rec = do(t, srv, http.MethodPost, "/api/v1/calculate/batch", fmt.Sprintf(`{"requests":[%s,{}]}`, scenarioABody))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("incomplete item: got %d, want 400", rec.Code)
	}
	if resp := decodeResponse(t, rec); !strings.Contains(resp.Error, `missing field "latitude"`) {
		t.Errorf("incomplete item: got %q", resp.Error)
	}

	body := fmt.Sprintf(`{"requests":[%s,%s,%s]}`, scenarioABody, scenarioABody, scenarioABody)
	rec = do(t, srv, http.MethodPost, "/api/v1/calculate/batch", body)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("oversized batch: got %d, want 400", rec.Code)
	}
	resp := decodeResponse(t, rec)
	if resp.Success || !strings.Contains(resp.Error, "at most 2") {
		t.Errorf("oversized batch: got %+v", resp)
	}
}

// ════════════════════════════════════════════════════════════════════
// Catalog
// ════════════════════════════════════════════════════════════════════

func TestListPanelsAndLocations(t *testing.T) {
	srv := testServer(t)

	rec := do(t, srv, http.MethodGet, "/api/v1/panels", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("panels status: got %d", rec.Code)
	}
	var panels []models.PanelType
	decodeData(t, decodeResponse(t, rec), &panels)
	if len(panels) != 4 {
		t.Errorf("panels: got %d, want 4", len(panels))
	}

	rec = do(t, srv, http.MethodGet, "/api/v1/locations", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("locations status: got %d", rec.Code)
	}
	var locs []models.Location
	decodeData(t, decodeResponse(t, rec), &locs)
	if len(locs) != 4 {
		t.Errorf("locations: got %d, want 4", len(locs))
	}
}

func TestGetByID(t *testing.T) {
	srv := testServer(t)

	tests := []struct {
		path string
		code int
	}{
		{"/api/v1/panels/1", http.StatusOK},
		{"/api/v1/panels/99", http.StatusNotFound},
		{"/api/v1/panels/abc", http.StatusNotFound},
		{"/api/v1/locations/4", http.StatusOK},
		{"/api/v1/locations/0", http.StatusNotFound},
	}
	for _, tt := range tests {
		rec := do(t, srv, http.MethodGet, tt.path, "")
		if rec.Code != tt.code {
			t.Errorf("%s: got %d, want %d", tt.path, rec.Code, tt.code)
		}
	}

	rec := do(t, srv, http.MethodGet, "/api/v1/locations/4", "")
	var loc models.Location
	decodeData(t, decodeResponse(t, rec), &loc)
	if loc.City != "Sydney" {
		t.Errorf("location 4: got %q, want Sydney", loc.City)
	}
}

func TestSimulate(t *testing.T) {
	srv := testServer(t)

	rec := do(t, srv, http.MethodPost, "/api/v1/simulate",
		`{"location_id": 4, "panel_type_id": 2, "roof_size_m2": 30}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d (%s)", rec.Code, rec.Body.String())
	}
	var got SimulateResponse
	decodeData(t, decodeResponse(t, rec), &got)

	if got.Location.City != "Sydney" || got.PanelType.Name != "LG NeON R" {
		t.Errorf("catalog rows: got %+v / %+v", got.Location, got.PanelType)
	}
	if got.Result == nil {
		t.Fatal("expected result")
	}
	if got.Result.NumPanels != 17 {
		t.Errorf("NumPanels: got %d, want 17", got.Result.NumPanels)
	}
	// Sydney is southern: January peak.
	jan, jul := got.Result.MonthlyBreakdown[0], got.Result.MonthlyBreakdown[6]
	if jan.OutputKWh <= jul.OutputKWh {
		t.Errorf("expected January > July for Sydney, got %v <= %v", jan.OutputKWh, jul.OutputKWh)
	}
}

func TestSimulateErrors(t *testing.T) {
	srv := testServer(t)

	tests := []struct {
		name string
		body string
		code int
	}{
		{"unknown location", `{"location_id": 9, "panel_type_id": 1, "roof_size_m2": 30}`, http.StatusNotFound},
		{"unknown panel", `{"location_id": 1, "panel_type_id": 9, "roof_size_m2": 30}`, http.StatusNotFound},
		{"roof too small", `{"location_id": 1, "panel_type_id": 1, "roof_size_m2": 1}`, http.StatusBadRequest},
		{"bad json", `{`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, srv, http.MethodPost, "/api/v1/simulate", tt.body)
			if rec.Code != tt.code {
				t.Errorf("status: got %d, want %d", rec.Code, tt.code)
			}
			if resp := decodeResponse(t, rec); resp.Success || resp.Error == "" {
				t.Errorf("expected error envelope, got %+v", resp)
			}
		})
	}
}

func TestCompare(t *testing.T) {
	srv := testServer(t)

	rec := do(t, srv, http.MethodPost, "/api/v1/compare", `{"location_id": 3, "roof_size_m2": 40}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d (%s)", rec.Code, rec.Body.String())
	}
	var got CompareResponse
	decodeData(t, decodeResponse(t, rec), &got)
	if got.Location.City != "Berlin" {
		t.Errorf("location: got %q", got.Location.City)
	}
	if len(got.Comparisons) != 4 {
		t.Fatalf("comparisons: got %d, want 4", len(got.Comparisons))
	}
	for i := 1; i < len(got.Comparisons); i++ {
		prev, cur := got.Comparisons[i-1].Result, got.Comparisons[i].Result
		if prev.EstimatedROIYears > cur.EstimatedROIYears {
			t.Errorf("comparisons not sorted at %d", i)
		}
	}

	rec = do(t, srv, http.MethodPost, "/api/v1/compare", `{"location_id": 77, "roof_size_m2": 40}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown location: got %d, want 404", rec.Code)
	}
}

func TestCompareRejectsRoof(t *testing.T) {
	srv := testServer(t)

	tests := []struct {
		roof string
		want string
	}{
		{"0", "Roof size must be positive"},
		{"1.0", "Roof size too small for any panels"},
	}
	for _, tt := range tests {
		body := fmt.Sprintf(`{"location_id": 3, "roof_size_m2": %s}`, tt.roof)
		rec := do(t, srv, http.MethodPost, "/api/v1/compare", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("roof %s: status got %d, want 400", tt.roof, rec.Code)
			continue
		}
		if resp := decodeResponse(t, rec); resp.Success || resp.Error != tt.want {
			t.Errorf("roof %s: got %+v, want error %q", tt.roof, resp, tt.want)
		}
	}
}

func TestCatalogUnavailable(t *testing.T) {
	srv := NewServer(testConfig(), nil, nil)

	rec := do(t, srv, http.MethodGet, "/api/v1/panels", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status: got %d, want 503", rec.Code)
	}
	// Core routes do not need the catalog.
	rec = do(t, srv, http.MethodPost, "/calculate", scenarioABody)
	if rec.Code != http.StatusOK {
		t.Errorf("calculate without catalog: got %d, want 200", rec.Code)
	}
}

// ════════════════════════════════════════════════════════════════════
// Config, metrics, rate limiting
// ════════════════════════════════════════════════════════════════════

func TestGetConfig(t *testing.T) {
	srv := testServer(t)

	rec := do(t, srv, http.MethodGet, "/api/v1/config", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	var got ConfigResponse
	decodeData(t, decodeResponse(t, rec), &got)
	if got.Config == nil || got.Config.API.Port != 8080 {
		t.Errorf("config: got %+v", got.Config)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := testServer(t)

	do(t, srv, http.MethodPost, "/calculate", scenarioABody)
	do(t, srv, http.MethodPost, "/calculate", strings.Replace(scenarioABody, `"roof_size_m2": 20`, `"roof_size_m2": 0`, 1))

	rec := do(t, srv, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"solarsim_estimates_total 1",
		`solarsim_validation_failures_total{kind="invalid_roof_size"} 1`,
		`solarsim_http_requests_total{code="200",route="/calculate"} 1`,
		`solarsim_http_requests_total{code="400",route="/calculate"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}

func TestMetricsCountCompare(t *testing.T) {
	srv := testServer(t)

	if rec := do(t, srv, http.MethodPost, "/api/v1/compare", `{"location_id": 1, "roof_size_m2": 30}`); rec.Code != http.StatusOK {
		t.Fatalf("compare: got %d", rec.Code)
	}

	body := do(t, srv, http.MethodGet, "/metrics", "").Body.String()
	if !strings.Contains(body, "solarsim_estimates_total 4") {
		t.Errorf("metrics should count one estimate per catalog panel:\n%s", body)
	}
}

func TestMetricsDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Metrics.Enabled = false
	srv := testServerWith(t, cfg)

	rec := do(t, srv, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rec.Code)
	}
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.API.RateLimit = 2
	cfg.API.RateWindowMs = 60_000
	srv := testServerWith(t, cfg)

	for i := 0; i < 2; i++ {
		if rec := do(t, srv, http.MethodPost, "/calculate", scenarioABody); rec.Code != http.StatusOK {
			t.Fatalf("request %d: got %d, want 200", i, rec.Code)
		}
	}
	rec := do(t, srv, http.MethodPost, "/api/v1/calculate", scenarioABody)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("third request: got %d, want 429", rec.Code)
	}
	// Health and catalog reads are not limited.
	if rec := do(t, srv, http.MethodGet, "/health", ""); rec.Code != http.StatusOK {
		t.Errorf("health under limit: got %d", rec.Code)
	}
}

func TestIndexPage(t *testing.T) {
	srv := testServer(t)

	rec := do(t, srv, http.MethodGet, "/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("content-type: got %q", ct)
	}
	if !strings.Contains(rec.Body.String(), `fetch("/calculate"`) {
		t.Error("index page does not post to /calculate")
	}

	// Only "/" is claimed.
	if rec := do(t, srv, http.MethodGet, "/nope", ""); rec.Code != http.StatusNotFound {
		t.Errorf("unknown path: got %d, want 404", rec.Code)
	}
}

func TestIndexPageDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Web.Enabled = false
	srv := testServerWith(t, cfg)

	if rec := do(t, srv, http.MethodGet, "/", ""); rec.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rec.Code)
	}
}
