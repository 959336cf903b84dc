package probe

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"
)

// ProbeResponse is the JSON shape of a single probe result.
type ProbeResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message,omitempty"`
	Attempts  int    `json:"attempts"`
	Duration  string `json:"duration"`
	Timestamp string `json:"timestamp"`
	Error     string `json:"error,omitempty"`
}

// StatusResponse is the JSON shape of an aggregate probe pass.
type StatusResponse struct {
	Status    string                   `json:"status"`
	Timestamp string                   `json:"timestamp"`
	Probes    map[string]ProbeResponse `json:"probes,omitempty"`
}

// LivenessHandler returns a handler that always reports the process as
// alive. It runs no probes; a live process answers 200 regardless of
// dependency state.
func LivenessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, StatusResponse{
			Status:    StatusHealthy.String(),
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
	})
}

// ReadinessHandler returns a handler that probes every dependency and
// answers 200 unless any probe is unhealthy. Degraded dependencies
// still count as ready.
func ReadinessHandler(p *Prober) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		results := p.RunAll(r.Context())
		status := OverallStatus(results)

		code := http.StatusOK
		if status == StatusUnhealthy {
			code = http.StatusServiceUnavailable
		}

		writeJSON(w, code, StatusResponse{
			Status:    status.String(),
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
	})
}

// DetailedHandler returns a handler that probes every dependency and
// reports per-probe detail.
func DetailedHandler(p *Prober) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		results := p.RunAll(r.Context())
		status := OverallStatus(results)

		code := http.StatusOK
		if status == StatusUnhealthy {
			code = http.StatusServiceUnavailable
		}

		writeJSON(w, code, StatusResponse{
			Status:    status.String(),
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Probes:    toResponses(results),
		})
	})
}

// SingleProbeHandler returns a handler that runs one probe named by the
// "probe" query parameter.
func SingleProbeHandler(p *Prober) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Query().Get("probe")
		if name == "" {
			http.Error(w, "missing probe parameter", http.StatusBadRequest)
			return
		}

		result, err := p.Run(r.Context(), name)
		if err != nil {
			if errors.Is(err, ErrProbeNotFound) {
				http.Error(w, "probe not found: "+name, http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		code := http.StatusOK
		if result.Status == StatusUnhealthy {
			code = http.StatusServiceUnavailable
		}

		writeJSON(w, code, toResponse(result))
	})
}

// RegisterHandlers registers the standard probe endpoints on mux:
// /healthz (liveness), /readyz (readiness), and /health (detail).
func RegisterHandlers(mux *http.ServeMux, p *Prober) {
	mux.Handle("/healthz", LivenessHandler())
	mux.Handle("/readyz", ReadinessHandler(p))
	mux.Handle("/health", DetailedHandler(p))
}

func toResponses(results map[string]Result) map[string]ProbeResponse {
	responses := make(map[string]ProbeResponse, len(results))
	for name, result := range results {
		responses[name] = toResponse(result)
	}
	return responses
}

func toResponse(result Result) ProbeResponse {
	response := ProbeResponse{
		Status:    result.Status.String(),
		Message:   result.Message,
		Attempts:  result.Attempts,
		Duration:  result.Duration.String(),
		Timestamp: result.Timestamp.UTC().Format(time.RFC3339),
	}
	if result.Error != nil {
		response.Error = result.Error.Error()
	}
	return response
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
