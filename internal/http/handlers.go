package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"incometracker/internal/core"
	"incometracker/internal/log"
)

const maxBodySize = 1 << 20

type eventRequest struct {
	Entry core.Event `json:"entry"`
	State core.State `json:"state"`
}

type eventResponse struct {
	Status  string `json:"status"`
	Matched bool   `json:"matched"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.ping != nil {
		if err := s.ping(r.Context()); err != nil {
			log.FromContext(r.Context()).WarnContext(r.Context(), "Health check failed", log.FieldError, err.Error())
			writeError(w, http.StatusServiceUnavailable, "store unavailable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.tracker.Summary(s.now()))
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := req.Entry.Name(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	status, matched := s.tracker.Process(r.Context(), req.Entry, req.State)
	if s.metrics != nil {
		s.metrics.ObserveEvent(matched)
	}
	writeJSON(w, http.StatusOK, eventResponse{Status: status, Matched: matched})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.tracker.Reset(r.Context()); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Reset failed", log.FieldError, err.Error())
		writeError(w, http.StatusInternalServerError, "reset failed")
		return
	}
	writeJSON(w, http.StatusOK, s.tracker.Summary(s.now()))
}

func (s *Server) handleGetPreferences(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.tracker.Preferences())
}

// handlePutPreferences applies the fields present in the body on top of the
// current preferences.
func (s *Server) handlePutPreferences(w http.ResponseWriter, r *http.Request) {
	p := s.tracker.Preferences()
	if err := decodeBody(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := core.ParseViewMode(string(p.ViewMode)); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.tracker.SetPreferences(r.Context(), p); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Saving preferences failed", log.FieldError, err.Error())
		writeError(w, http.StatusInternalServerError, "saving preferences failed")
		return
	}
	writeJSON(w, http.StatusOK, s.tracker.Preferences())
}

func decodeBody(r *http.Request, dst any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize+1))
	if err != nil {
		return err
	}
	if len(body) > maxBodySize {
		return errors.New("request body too large")
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(dst); err != nil {
		return errors.New("invalid JSON body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
