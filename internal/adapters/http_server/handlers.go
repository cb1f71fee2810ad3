package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"review_removal/internal/adapters/observability"
	"review_removal/internal/app"
	"review_removal/internal/domain"
	"review_removal/internal/progress"
)

const version = "2.0.0"

type Handlers struct {
	Pipeline  *app.Pipeline
	Companies *app.CompanyService
	Runs      domain.RunRepository // nil when run history is disabled
	Progress  *progress.Registry

	MaxUploadBytes int64
	runSem         *semaphore.Weighted
}

// NewHandlers wires the request boundary. maxConcurrent caps simultaneous
// pipeline runs; further webhooks queue on the semaphore.
func NewHandlers(p *app.Pipeline, c *app.CompanyService, runs domain.RunRepository, reg *progress.Registry, maxUploadBytes int64, maxConcurrent int) *Handlers {
	if maxConcurrent <= 0 {
		maxConcurrent = 4
	}
	if maxUploadBytes <= 0 {
		maxUploadBytes = 50 << 20
	}
	return &Handlers{
		Pipeline:       p,
		Companies:      c,
		Runs:           runs,
		Progress:       reg,
		MaxUploadBytes: maxUploadBytes,
		runSem:         semaphore.NewWeighted(int64(maxConcurrent)),
	}
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/api/health", h.health)
	s.mux.Get("/api/events", h.events)
	s.mux.Post("/api/webhook", h.webhook)
	s.mux.Get("/api/companies", h.listCompanies)
	s.mux.Post("/api/companies", h.addCompany)
	s.mux.Get("/api/runs", h.listRuns)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

func (h *Handlers) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   version,
	})
}

// webhook is the single processing entry point: multipart form with fields
// type (link|file), url, brandName, optional run (client-chosen run ID for
// event streaming) and an optional uploaded file under "data".
func (h *Handlers) webhook(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.MaxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "could not parse form: " + err.Error()})
		return
	}

	req := domain.ProcessRequest{
		Kind:      domain.SourceKind(r.FormValue("type")),
		URL:       r.FormValue("url"),
		BrandName: r.FormValue("brandName"),
		RunID:     r.FormValue("run"),
	}
	if req.RunID == "" {
		req.RunID = uuid.NewString()
	}

	if file, header, err := r.FormFile("data"); err == nil {
		defer file.Close()
		data, rerr := io.ReadAll(io.LimitReader(file, h.MaxUploadBytes+1))
		if rerr != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "could not read upload: " + rerr.Error()})
			return
		}
		if int64(len(data)) > h.MaxUploadBytes {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "upload too large"})
			return
		}
		req.FileName = header.Filename
		req.FileBytes = data
	}

	if err := h.runSem.Acquire(r.Context(), 1); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "server busy"})
		return
	}
	defer h.runSem.Release(1)

	// The run's event stream lives as long as the run; releasing closes any
	// subscribed clients' channels.
	h.Progress.Open(req.RunID)
	defer h.Progress.Release(req.RunID)

	log.Info().Str("run", req.RunID).Str("kind", string(req.Kind)).Str("brand", req.BrandName).Msg("processing request received")

	sum, err := h.Pipeline.Run(r.Context(), req)
	if err != nil {
		var permErr *domain.PermissionRequiredError
		var parseErr *domain.ParseError
		switch {
		case errors.As(err, &permErr):
			observability.ObserveRun("permission_required")
			writeJSON(w, http.StatusForbidden, map[string]any{
				"error":         "Permission denied. Please share the sheet with our service email.",
				"requiresShare": true,
				"shareEmail":    permErr.ContactEmail,
			})
		case errors.Is(err, domain.ErrInvalidInput):
			observability.ObserveRun("invalid_input")
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		case errors.As(err, &parseErr):
			observability.ObserveRun("error")
			writeJSON(w, http.StatusInternalServerError, map[string]any{
				"error":   "Failed to process request",
				"details": err.Error(),
			})
		default:
			observability.ObserveRun("error")
			log.Error().Err(err).Str("run", req.RunID).Msg("processing failed")
			writeJSON(w, http.StatusInternalServerError, map[string]any{
				"error":   "Failed to process request",
				"details": err.Error(),
			})
		}
		return
	}

	observability.ObserveRun("ok")
	writeJSON(w, http.StatusOK, map[string]any{
		"resetUrl": "Message Drafted, Sheet link is " + sum.SheetURL,
		"runId":    req.RunID,
		"stats": map[string]int{
			"totalReviews":    sum.TotalReviews,
			"uniqueReviews":   sum.UniqueReviews,
			"lowRatedReviews": sum.LowRatedReviews,
			"processed":       sum.Processed,
			"nonCompliant":    sum.NonCompliant,
			"failed":          sum.Failed,
		},
	})
}

func (h *Handlers) listCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := h.Companies.List(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("list companies failed")
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "error": "Failed to fetch companies"})
		return
	}
	type companyJSON struct {
		Name    string `json:"name"`
		Website string `json:"website"`
	}
	out := make([]companyJSON, 0, len(companies))
	for _, c := range companies {
		out = append(out, companyJSON{Name: c.Name, Website: c.Website})
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "companies": out})
}

func (h *Handlers) addCompany(w http.ResponseWriter, r *http.Request) {
	var body struct {
		CompanyName string `json:"companyName"`
		Website     string `json:"website"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "invalid JSON body"})
		return
	}
	if err := h.Companies.Add(r.Context(), body.CompanyName, body.Website); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "Company Name is required"})
			return
		}
		log.Error().Err(err).Msg("add company failed")
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "error": "Failed to add company"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Company added successfully"})
}

func (h *Handlers) listRuns(w http.ResponseWriter, r *http.Request) {
	if h.Runs == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "run history not configured"})
		return
	}
	runs, err := h.Runs.ListRuns(r.Context(), 50)
	if err != nil {
		log.Error().Err(err).Msg("list runs failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to fetch runs"})
		return
	}
	type runJSON struct {
		ID              string    `json:"id"`
		Brand           string    `json:"brand"`
		SourceKind      string    `json:"sourceKind"`
		SheetURL        string    `json:"sheetUrl"`
		TotalReviews    int       `json:"totalReviews"`
		UniqueReviews   int       `json:"uniqueReviews"`
		LowRatedReviews int       `json:"lowRatedReviews"`
		Processed       int       `json:"processed"`
		NonCompliant    int       `json:"nonCompliant"`
		Failed          int       `json:"failed"`
		StartedAt       time.Time `json:"startedAt"`
		FinishedAt      time.Time `json:"finishedAt"`
	}
	out := make([]runJSON, 0, len(runs))
	for _, run := range runs {
		out = append(out, runJSON{
			ID: run.ID, Brand: run.Brand, SourceKind: run.SourceKind,
			SheetURL: run.SheetURL, TotalReviews: run.TotalReviews,
			UniqueReviews: run.UniqueReviews, LowRatedReviews: run.LowRatedReviews,
			Processed: run.Processed, NonCompliant: run.NonCompliant,
			Failed: run.Failed, StartedAt: run.StartedAt, FinishedAt: run.FinishedAt,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": out})
}
