package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-kit/log/level"

	"github.com/markassist/markassist/internal/grading"
	"github.com/markassist/markassist/internal/marks"
	"github.com/markassist/markassist/internal/store"
)

type listResponse struct {
	Operation string         `json:"operation"`
	Params    []string       `json:"params"`
	Count     int            `json:"count"`
	Records   []marks.Record `json:"records"`
}

type writeResponse struct {
	Affected int64         `json:"affected"`
	Record   marks.Record  `json:"record"`
	Grade    grading.Grade `json:"grade,omitempty"`
}

type batchResponse struct {
	Count   int            `json:"count"`
	Records []marks.Record `json:"records"`
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId,omitempty"`
	Done      *int   `json:"done,omitempty"`
	Total     *int   `json:"total,omitempty"`
}

// markBody is the request body for writes. The student ID comes from the
// URL.
type markBody struct {
	StudentID   string        `json:"studentId"`
	Assignment1 int           `json:"assignment1"`
	Assignment2 int           `json:"assignment2"`
	Exam        int           `json:"exam"`
	Total       *int          `json:"total"`
	Grade       grading.Grade `json:"grade"`
}

// GET /marks?op=grade&p=HD
func (s *Server) listMarks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	name := q.Get("op")
	if name == "" {
		name = "all"
	}
	params := q["p"]
	if params == nil {
		params = []string{}
	}

	op, err := marks.ParseOperation(name)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), RequestID: middleware.GetReqID(r.Context())})
		return
	}

	recs, err := s.wf.Repository().Select(r.Context(), op, params...)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{
		Operation: op.String(),
		Params:    params,
		Count:     len(recs),
		Records:   recs,
	})
}

// PUT /marks/{studentID}
func (s *Server) updateMark(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.decodeRecord(w, r, marks.OpUpdateRecord)
	if !ok {
		return
	}
	if rec.Grade == "" {
		rec.Grade = rec.Classify()
	}

	n, err := s.wf.Repository().Command(r.Context(), marks.OpUpdateRecord, rec)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if n == 0 {
		s.writeNotFound(w, r, rec.StudentID)
		return
	}
	writeJSON(w, http.StatusOK, writeResponse{Affected: n, Record: rec})
}

// POST /marks/{studentID}/recompute
func (s *Server) recomputeOne(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.decodeRecord(w, r, marks.OpRecomputeOneGrade)
	if !ok {
		return
	}

	n, g, err := s.wf.RecomputeOne(r.Context(), rec)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if n == 0 {
		s.writeNotFound(w, r, rec.StudentID)
		return
	}
	writeJSON(w, http.StatusOK, writeResponse{Affected: n, Record: rec.WithGrade(g), Grade: g})
}

// POST /marks/recompute
func (s *Server) recomputeAll(w http.ResponseWriter, r *http.Request) {
	recs, err := s.wf.RecomputeAll(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, batchResponse{Count: len(recs), Records: recs})
}

// GET /stats
func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	recs, err := s.wf.Repository().Run(r.Context(), marks.All{})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, marks.Summarize(recs))
}

// GET /healthz
func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		if err := s.health.Ping(r.Context()); err != nil {
			level.Warn(s.logger).Log("msg", "health check failed", "err", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeRecord reads a markBody and binds it to the URL's student ID. A
// blank total is the sum of the components.
func (s *Server) decodeRecord(w http.ResponseWriter, r *http.Request, op marks.Operation) (marks.Record, bool) {
	id := strings.TrimSpace(chi.URLParam(r, "studentID"))

	var body markBody
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		s.writeError(w, r, &marks.ErrValidation{Op: op, Reason: "bad JSON body", Err: err})
		return marks.Record{}, false
	}
	if body.StudentID != "" && body.StudentID != id {
		s.writeError(w, r, &marks.ErrValidation{
			Op:     op,
			Reason: fmt.Sprintf("body student ID %q does not match URL %q", body.StudentID, id),
		})
		return marks.Record{}, false
	}

	rec := marks.Record{
		StudentID:   id,
		Assignment1: body.Assignment1,
		Assignment2: body.Assignment2,
		Exam:        body.Exam,
		Grade:       grading.Grade(strings.ToUpper(string(body.Grade))),
	}
	if rec.Grade != "" && !rec.Grade.Valid() {
		s.writeError(w, r, &marks.ErrValidation{Op: op, Reason: fmt.Sprintf("unknown grade %q", rec.Grade)})
		return marks.Record{}, false
	}
	if body.Total != nil {
		rec.Total = *body.Total
	} else {
		rec.Total = rec.Sum()
	}
	return rec, true
}

func (s *Server) writeNotFound(w http.ResponseWriter, r *http.Request, id string) {
	writeJSON(w, http.StatusNotFound, errorResponse{
		Error:     fmt.Sprintf("no record for student %q", id),
		RequestID: middleware.GetReqID(r.Context()),
	})
}

// writeError maps the error taxonomy onto status codes.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	resp := errorResponse{Error: err.Error(), RequestID: middleware.GetReqID(r.Context())}
	status := http.StatusInternalServerError

	var (
		verr  *marks.ErrValidation
		batch *marks.ErrBatch
		conn  *store.ErrConnection
	)
	switch {
	case errors.As(err, &verr):
		status = http.StatusBadRequest
	case errors.As(err, &batch):
		resp.Done, resp.Total = &batch.Done, &batch.Total
	case errors.As(err, &conn):
		level.Error(s.logger).Log("msg", "store unavailable", "err", err)
	}

	if status >= http.StatusInternalServerError {
		level.Warn(s.logger).Log("msg", "request failed", "request_id", resp.RequestID, "err", err)
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
