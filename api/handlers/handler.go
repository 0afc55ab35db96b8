package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/jusunglee/trainusage/internal/dashboard"
	"github.com/jusunglee/trainusage/internal/logging"
	"github.com/jusunglee/trainusage/internal/models"
	"github.com/jusunglee/trainusage/internal/render"
	"github.com/jusunglee/trainusage/pkg/trains"
)

var (
	errBadCategory = errors.New("category must be metro or regional")
	errBadMode     = errors.New("mode must be bar or timeseries")
)

// Handler handles HTTP requests
type Handler struct {
	client trains.Client
	logger *slog.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(client trains.Client, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{client: client, logger: logger}
}

// RegisterRoutes registers all routes
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/", h.handleIndex).Methods("GET")
	r.HandleFunc("/health", h.handleHealth).Methods("GET")
	r.HandleFunc("/lines", h.handleLines).Methods("GET")
	r.HandleFunc("/dataset", h.handleDataset).Methods("GET")
	r.HandleFunc("/charts/bar", h.handleBar).Methods("GET")
	r.HandleFunc("/charts/timeseries", h.handleTimeSeries).Methods("GET")
	r.HandleFunc("/charts/{category}.{format:svg|png}", h.handleChartImage).Methods("GET")
	r.HandleFunc("/peaks", h.handlePeaks).Methods("GET")
	r.HandleFunc("/dashboard", h.handleDashboard).Methods("GET")
	r.HandleFunc("/dashboard/selection", h.handleSelect).Methods("PUT", "POST")
	r.HandleFunc("/dashboard/chart-mode/toggle", h.handleToggleChartMode).Methods("POST")
	r.HandleFunc("/dashboard/peaks/toggle", h.handleTogglePeaks).Methods("POST")
	r.HandleFunc("/refresh", h.handleRefresh).Methods("POST")
}

// Response wraps API responses
type Response struct {
	Data    interface{} `json:"data"`
	Updated string      `json:"updated,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// SelectionRequest is the body of a selection change
type SelectionRequest struct {
	Lines []string `json:"lines"`
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"title":  "Sydney Trains Usage",
		"source": h.client.GetDatasetInfo().Source,
	}
	h.writeJSON(w, r, response)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	lastUpdate := h.client.GetLastUpdate()
	response := map[string]interface{}{
		"status": "ok",
		"loaded": !lastUpdate.IsZero(),
	}
	if !lastUpdate.IsZero() {
		response["last_update"] = lastUpdate.Format(time.RFC3339)
	}
	h.writeJSON(w, r, response)
}

func (h *Handler) handleLines(w http.ResponseWriter, r *http.Request) {
	var category models.Category
	if raw := r.URL.Query().Get("category"); raw != "" {
		c, ok := models.ParseCategory(raw)
		if !ok {
			h.writeError(w, errBadCategory.Error(), http.StatusBadRequest)
			return
		}
		category = c
	}

	h.writeData(w, r, h.client.GetLines(category))
}

func (h *Handler) handleDataset(w http.ResponseWriter, r *http.Request) {
	h.writeData(w, r, h.client.GetDatasetInfo())
}

func (h *Handler) handleBar(w http.ResponseWriter, r *http.Request) {
	h.writePanels(w, r, models.ChartBar)
}

func (h *Handler) handleTimeSeries(w http.ResponseWriter, r *http.Request) {
	h.writePanels(w, r, models.ChartTimeSeries)
}

func (h *Handler) writePanels(w http.ResponseWriter, r *http.Request, mode models.ChartMode) {
	categories, err := parseCategories(r)
	if err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	selection := parseSelection(r)

	panels := make([]dashboard.Panel, 0, len(categories))
	for _, c := range categories {
		panels = append(panels, h.client.GetPanel(c, mode, selection))
	}
	h.writeData(w, r, panels)
}

func (h *Handler) handlePeaks(w http.ResponseWriter, r *http.Request) {
	categories, err := parseCategories(r)
	if err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	selection := parseSelection(r)

	groups := make([]dashboard.PeakGroup, 0, len(categories))
	for _, c := range categories {
		groups = append(groups, h.client.GetPeaks(c, selection))
	}
	h.writeData(w, r, groups)
}

func (h *Handler) handleChartImage(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	category, ok := models.ParseCategory(vars["category"])
	if !ok {
		h.writeError(w, errBadCategory.Error(), http.StatusBadRequest)
		return
	}
	format, err := render.ParseFormat(vars["format"])
	if err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	selection := parseSelection(r)
	mode, ok := models.ParseChartMode(r.URL.Query().Get("mode"))
	if !ok {
		h.writeError(w, errBadMode.Error(), http.StatusBadRequest)
		return
	}
	if r.URL.Query().Get("mode") == "" && !r.URL.Query().Has("lines") && !r.URL.Query().Has("line") {
		// no explicit query: draw what the dashboard currently shows
		st := h.client.GetDashboard().State
		mode, selection = st.ChartMode, st.Selection
	}

	var buf bytes.Buffer
	panel := h.client.GetPanel(category, mode, selection)
	if err := render.Panel(&buf, panel, format); err != nil {
		if errors.Is(err, render.ErrNoData) {
			h.writeError(w, err.Error(), http.StatusNotFound)
			return
		}
		logging.LogError(h.requestLogger(r), "chart render failed", err, slog.String("category", string(category)))
		h.writeError(w, "Failed to render chart", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Write(buf.Bytes())
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	h.writeData(w, r, h.client.GetDashboard())
}

func (h *Handler) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req SelectionRequest
	body := http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(body).Decode(&req); err != nil && err != io.EOF {
		h.writeError(w, "Invalid selection body", http.StatusBadRequest)
		return
	}

	h.client.Select(req.Lines)
	h.writeData(w, r, h.client.GetDashboard())
}

func (h *Handler) handleToggleChartMode(w http.ResponseWriter, r *http.Request) {
	h.client.ToggleChartMode()
	h.writeData(w, r, h.client.GetDashboard())
}

func (h *Handler) handleTogglePeaks(w http.ResponseWriter, r *http.Request) {
	h.client.TogglePeaks()
	h.writeData(w, r, h.client.GetDashboard())
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := h.client.Refresh(r.Context()); err != nil {
		logging.LogError(h.requestLogger(r), "refresh failed", err)
		h.writeError(w, "Failed to refresh dataset", http.StatusBadGateway)
		return
	}
	h.writeData(w, r, h.client.GetDatasetInfo())
}

func parseCategories(r *http.Request) ([]models.Category, error) {
	raw := r.URL.Query().Get("category")
	if raw == "" {
		return models.Categories, nil
	}
	c, ok := models.ParseCategory(raw)
	if !ok {
		return nil, errBadCategory
	}
	return []models.Category{c}, nil
}

// parseSelection reads lines=a,b and repeated line=a parameters
func parseSelection(r *http.Request) models.Selection {
	q := r.URL.Query()
	var lines []string
	for _, v := range q["lines"] {
		lines = append(lines, strings.Split(v, ",")...)
	}
	lines = append(lines, q["line"]...)
	return models.NewSelection(lines)
}

func (h *Handler) writeData(w http.ResponseWriter, r *http.Request, data interface{}) {
	response := Response{Data: data}
	if lastUpdate := h.client.GetLastUpdate(); !lastUpdate.IsZero() {
		response.Updated = lastUpdate.Format(time.RFC3339)
	}
	h.writeJSON(w, r, response)
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, data interface{}) {
	if wantsProto(r) {
		h.writeProto(w, r, data)
		return
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(data); err != nil {
		logging.LogError(h.requestLogger(r), "encode response failed", err)
		h.writeError(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(buf.Bytes())
}

// requestLogger prefers the request-scoped logger set by LoggingMiddleware
func (h *Handler) requestLogger(r *http.Request) *slog.Logger {
	return logging.FromContextOr(r.Context(), h.logger)
}

func (h *Handler) writeError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}
