// internal/api/handler/api/scanner.go
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/srinivasa1225/Trading-Strategy-Dashboard/internal/api/job"
	"github.com/srinivasa1225/Trading-Strategy-Dashboard/internal/api/response"
	"github.com/srinivasa1225/Trading-Strategy-Dashboard/internal/core"
	"github.com/srinivasa1225/Trading-Strategy-Dashboard/internal/metrics"
)

const (
	scanTimeout = 5 * time.Minute

	// defaultMinConfidence matches the strategy API's scanner default.
	defaultMinConfidence = 70
)

// ScanRunner runs a universe sweep and handles its results. Implemented
// by the app, which also archives the sweep and routes its signals.
type ScanRunner interface {
	RunScan(ctx context.Context, universe string, symbols []string, minConfidence int) (*core.ScanResult, error)
}

// ScanRequest is the request body for starting an async sweep. A zero
// MinConfidence means the scanner default.
type ScanRequest struct {
	Universe      string   `json:"universe,omitempty"`
	Symbols       []string `json:"symbols,omitempty"`
	MinConfidence int      `json:"min_confidence,omitempty"`
}

// ScannerHandler serves synchronous scans and async sweep jobs.
type ScannerHandler struct {
	runner  ScanRunner
	jobs    *job.Store
	metrics *metrics.Registry
}

// NewScannerHandler creates a new scanner handler.
func NewScannerHandler(runner ScanRunner, jobs *job.Store, m *metrics.Registry) *ScannerHandler {
	return &ScannerHandler{runner: runner, jobs: jobs, metrics: m}
}

// scanEnvelope mirrors the strategy API scanner wire format.
type scanEnvelope struct {
	core.ScanResult
	Success bool `json:"success"`
}

// Scan handles GET /api/pullback-scanner. Symbols come from repeated
// symbols params or a universe alias; with neither, the configured
// default universe is swept.
func (h *ScannerHandler) Scan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		response.MethodNotAllowed(w)
		return
	}

	q := r.URL.Query()
	symbols := q["symbols"]
	for _, s := range symbols {
		if !core.ValidSymbol(s) {
			response.Error(w, http.StatusBadRequest,
				core.WrapError(core.ErrSymbolInvalid, fmt.Errorf("symbol %q", s)))
			return
		}
	}

	minConfidence := defaultMinConfidence
	if v := q.Get("min_confidence"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			minConfidence = n
		}
	}

	result, err := h.runner.RunScan(r.Context(), q.Get("universe"), symbols, minConfidence)
	if err != nil {
		if errors.Is(err, core.ErrUniverseUnknown) {
			response.Error(w, http.StatusBadRequest, err)
			return
		}
		response.Error(w, http.StatusBadGateway, err)
		return
	}

	response.Raw(w, http.StatusOK, scanEnvelope{ScanResult: *result, Success: true})
}

// Create handles POST /api/scan. It starts a sweep in the background
// and returns a job id to poll.
func (h *ScannerHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		response.MethodNotAllowed(w)
		return
	}

	var req ScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(w, http.StatusBadRequest,
			core.WrapError(core.ErrConfigInvalid, fmt.Errorf("decoding request: %w", err)))
		return
	}
	for _, s := range req.Symbols {
		if !core.ValidSymbol(s) {
			response.Error(w, http.StatusBadRequest,
				core.WrapError(core.ErrSymbolInvalid, fmt.Errorf("symbol %q", s)))
			return
		}
	}
	if req.MinConfidence <= 0 {
		req.MinConfidence = defaultMinConfidence
	}

	j := h.jobs.Create("scan")

	// Copy values before starting goroutine to avoid race
	jobID := j.ID
	status := j.Status

	h.setJobsGauge()
	go h.runSweep(jobID, req)

	response.JSON(w, http.StatusAccepted, map[string]any{
		"job_id": jobID,
		"status": status,
	})
}

// runSweep executes the sweep and updates job status.
func (h *ScannerHandler) runSweep(jobID string, req ScanRequest) {
	h.jobs.Update(jobID, func(j *job.Job) {
		j.Status = job.StatusRunning
	})

	ctx, cancel := context.WithTimeout(context.Background(), scanTimeout)
	defer cancel()
	result, err := h.runner.RunScan(ctx, req.Universe, req.Symbols, req.MinConfidence)

	if err != nil {
		h.jobs.Update(jobID, func(j *job.Job) {
			j.Status = job.StatusFailed
			j.Error = asCoreError(err)
		})
		h.setJobsGauge()
		return
	}

	h.jobs.Update(jobID, func(j *job.Job) {
		j.Status = job.StatusComplete
		j.Progress = 100
		j.Result = result
	})
	h.setJobsGauge()
}

// JobStatus handles GET /api/jobs/{id}.
func (h *ScannerHandler) JobStatus(w http.ResponseWriter, r *http.Request, jobID string) {
	if r.Method != http.MethodGet {
		response.MethodNotAllowed(w)
		return
	}

	j, err := h.jobs.Get(jobID)
	if err != nil {
		response.Error(w, http.StatusNotFound, err)
		return
	}

	resp := map[string]any{
		"job_id":   j.ID,
		"status":   j.Status,
		"progress": j.Progress,
	}

	if j.Status == job.StatusComplete {
		resp["result"] = j.Result
	}
	if j.Status == job.StatusFailed && j.Error != nil {
		resp["error"] = map[string]string{
			"code":    j.Error.Code,
			"message": j.Error.Message,
		}
	}

	response.JSON(w, http.StatusOK, resp)
}

func (h *ScannerHandler) setJobsGauge() {
	if h.metrics == nil {
		return
	}
	h.metrics.SetJobsActive("scan", h.jobs.Active("scan"))
}

// asCoreError keeps structured codes intact when storing job failures.
func asCoreError(err error) *core.Error {
	var ce *core.Error
	if errors.As(err, &ce) {
		return ce
	}
	return core.WrapError(core.ErrUpstreamUnreachable, err)
}
