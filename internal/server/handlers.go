package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rollingchair63/EntrepreNO/internal/profile"
	"github.com/rollingchair63/EntrepreNO/internal/redact"
	"github.com/rollingchair63/EntrepreNO/internal/render"
)

// analyzeRequest accepts either a raw text blob or individual fields.
// Connections may be a JSON number or free text such as "500+".
type analyzeRequest struct {
	Text        string          `json:"text"`
	Name        string          `json:"name"`
	Headline    string          `json:"headline"`
	Connections json.RawMessage `json:"connections"`
	Summary     string          `json:"summary"`
}

func (req analyzeRequest) record() (profile.Record, error) {
	raw := bytes.TrimSpace(req.Connections)
	noCount := len(raw) == 0 || bytes.Equal(raw, []byte("null"))
	if strings.TrimSpace(req.Text) != "" {
		if req.Name != "" || req.Headline != "" || req.Summary != "" || !noCount {
			return profile.Record{}, errors.New("send either text or profile fields, not both")
		}
		return profile.Parse(req.Text), nil
	}

	switch {
	case noCount:
		return profile.FromValues(req.Name, req.Headline, nil, req.Summary), nil
	case raw[0] == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return profile.Record{}, fmt.Errorf("connections: %w", err)
		}
		return profile.FromFields(req.Name, req.Headline, s, req.Summary), nil
	default:
		var n int
		if err := json.Unmarshal(raw, &n); err != nil {
			return profile.Record{}, errors.New("connections must be an integer or a string")
		}
		return profile.FromValues(req.Name, req.Headline, &n, req.Summary), nil
	}
}

// analyze handles POST /v1/analyze.
func (s *Server) analyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req analyzeRequest
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("request body exceeds %d bytes", s.maxBody))
			return
		}
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	rec, err := req.record()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if rec.IsEmpty() {
		writeError(w, http.StatusBadRequest, "empty profile")
		return
	}

	res := s.engine.Score(rec)
	s.metrics.ObserveResult(res)

	id := RequestID(r.Context())
	s.logger.Debug("analyzed",
		"id", id,
		"headline", redact.Redact(rec.Headline),
		"score", res.Score,
		"verdict", res.Verdict,
		"reasons", len(res.Matches),
	)

	rep := render.NewReport(rec, res, render.Options{
		Redact:  s.redact,
		RuleSet: s.engine.RuleSet().Name,
	})
	rep.ID = id
	writeJSON(w, http.StatusOK, rep)
}

// rules handles GET /v1/rules.
func (s *Server) rules(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.RuleSet())
}

// health handles GET /health.
func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
