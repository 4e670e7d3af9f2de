package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/seenimoa/solarsim/internal/catalog"
	"github.com/seenimoa/solarsim/internal/simulator"
	"github.com/seenimoa/solarsim/pkg/models"
)

// BatchRequest is the body for POST /api/v1/calculate/batch.
type BatchRequest struct {
	Requests []models.SimulationRequest `json:"requests"`
}

// SimulateRequest is the body for POST /api/v1/simulate.
type SimulateRequest struct {
	LocationID  int64   `json:"location_id"`
	PanelTypeID int64   `json:"panel_type_id"`
	RoofSizeM2  float64 `json:"roof_size_m2"`
}

// SimulateResponse pairs a preset estimate with the catalog rows it used.
type SimulateResponse struct {
	Location  models.Location            `json:"location"`
	PanelType models.PanelType           `json:"panel_type"`
	Result    *models.SimulationResponse `json:"result"`
}

// CompareRequest is the body for POST /api/v1/compare.
type CompareRequest struct {
	LocationID int64   `json:"location_id"`
	RoofSizeM2 float64 `json:"roof_size_m2"`
}

// CompareResponse lists every catalog panel at one site, best payback first.
type CompareResponse struct {
	Location    models.Location      `json:"location"`
	Comparisons []catalog.Comparison `json:"comparisons"`
}

// ============================================================
// Handlers
// ============================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Service: ServiceName,
	})
}

func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	var req models.SimulationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBareError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	res, err := s.estimate(req)
	if err != nil {
		writeBareError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if len(req.Requests) == 0 {
		writeError(w, http.StatusBadRequest, "requests must not be empty")
		return
	}
	if limit := s.cfg.Batch.MaxRequests; len(req.Requests) > limit {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("at most %d requests per batch", limit))
		return
	}

	items := simulator.EstimateBatch(r.Context(), req.Requests, s.cfg.Batch.Concurrency)
	s.metrics.ObserveBatch(items)

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: items})
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	if !s.requireCatalog(w) {
		return
	}
	var req SimulateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	loc, err := s.catalog.Location(r.Context(), req.LocationID)
	if err != nil {
		s.writeCatalogError(w, err)
		return
	}
	panel, err := s.catalog.Panel(r.Context(), req.PanelTypeID)
	if err != nil {
		s.writeCatalogError(w, err)
		return
	}

	res, err := s.estimate(loc.Request(panel, req.RoofSizeM2))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: SimulateResponse{
			Location:  loc,
			PanelType: panel,
			Result:    res,
		},
	})
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	if !s.requireCatalog(w) {
		return
	}
	var req CompareRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	loc, err := s.catalog.Location(r.Context(), req.LocationID)
	if err != nil {
		s.writeCatalogError(w, err)
		return
	}
	comparisons, err := s.catalog.Compare(r.Context(), loc.ID, req.RoofSizeM2, s.cfg.Batch.Concurrency)
	var ve *simulator.ValidationError
	if errors.As(err, &ve) {
		writeError(w, http.StatusBadRequest, ve.Error())
		return
	}
	if err != nil {
		s.writeCatalogError(w, err)
		return
	}
	s.metrics.ObserveBatch(comparisonItems(comparisons))

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: CompareResponse{
			Location:    loc,
			Comparisons: comparisons,
		},
	})
}

func (s *Server) handleListPanels(w http.ResponseWriter, r *http.Request) {
	if !s.requireCatalog(w) {
		return
	}
	panels, err := s.catalog.Panels(r.Context())
	if err != nil {
		s.writeCatalogError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: panels})
}

func (s *Server) handleGetPanel(w http.ResponseWriter, r *http.Request) {
	if !s.requireCatalog(w) {
		return
	}
	id, err := catalog.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		s.writeCatalogError(w, err)
		return
	}
	panel, err := s.catalog.Panel(r.Context(), id)
	if err != nil {
		s.writeCatalogError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: panel})
}

func (s *Server) handleListLocations(w http.ResponseWriter, r *http.Request) {
	if !s.requireCatalog(w) {
		return
	}
	locs, err := s.catalog.Locations(r.Context())
	if err != nil {
		s.writeCatalogError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: locs})
}

func (s *Server) handleGetLocation(w http.ResponseWriter, r *http.Request) {
	if !s.requireCatalog(w) {
		return
	}
	id, err := catalog.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		s.writeCatalogError(w, err)
		return
	}
	loc, err := s.catalog.Location(r.Context(), id)
	if err != nil {
		s.writeCatalogError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: loc})
}

// comparisonItems views comparisons as batch items for metrics.
func comparisonItems(cs []catalog.Comparison) []simulator.BatchItem {
	items := make([]simulator.BatchItem, len(cs))
	for i, c := range cs {
		items[i] = simulator.BatchItem{Index: i, Result: c.Result, Error: c.Error, Kind: c.Kind}
	}
	return items
}

// estimate runs the simulator and records the outcome.
func (s *Server) estimate(req models.SimulationRequest) (*models.SimulationResponse, error) {
	start := time.Now()
	res, err := simulator.Estimate(req)
	s.metrics.ObserveEstimate(start, err)
	return res, err
}

func (s *Server) requireCatalog(w http.ResponseWriter) bool {
	if s.catalog == nil {
		writeError(w, http.StatusServiceUnavailable, "catalog unavailable")
		return false
	}
	return true
}

func (s *Server) writeCatalogError(w http.ResponseWriter, err error) {
	if errors.Is(err, catalog.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}
