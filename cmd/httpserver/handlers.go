package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/danmuck/qsort_viz/src/session"
	"github.com/danmuck/qsort_viz/src/sorter"
	"github.com/danmuck/qsort_viz/src/trace"
	logs "github.com/danmuck/smplog"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const maxBodyBytes = 1 << 20

type server struct {
	sessions *registry
	source   sorter.PivotSource // nil = process-wide source
}

func newServer(limit int, src sorter.PivotSource) *server {
	return &server{sessions: newRegistry(limit), source: src}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Get("/", s.handleList)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Delete("/", s.handleDelete)
			r.Get("/trace", s.handleTrace)
			r.Get("/steps/{index}", s.handleStep)
			r.Post("/{move}", s.handleMove)
		})
	})
	return r
}

type createRequest struct {
	Values []any    `json:"values"`
	Size   int      `json:"size"`
	Min    *float64 `json:"min"`
	Max    *float64 `json:"max"`
}

type statsResponse struct {
	Steps       int `json:"steps"`
	Partitions  int `json:"partitions"`
	Comparisons int `json:"comparisons"`
	Swaps       int `json:"swaps"`
}

type sessionResponse struct {
	ID      string         `json:"id"`
	Input   []float64      `json:"input"`
	Steps   int            `json:"steps"`
	Cursor  int            `json:"cursor"`
	AtEnd   bool           `json:"atEnd"`
	Current trace.Snapshot `json:"current"`
	Stats   statsResponse  `json:"stats"`
}

type moveResponse struct {
	Moved bool `json:"moved"`
	sessionResponse
}

type traceResponse struct {
	ID        string           `json:"id"`
	Snapshots []trace.Snapshot `json:"snapshots"`
}

type stepResponse struct {
	Index    int            `json:"index"`
	Snapshot trace.Snapshot `json:"snapshot"`
}

type errorResponse struct {
	Error string `json:"error"`
	Index *int   `json:"index,omitempty"`
}

func newSessionResponse(sess *session.SortSession) sessionResponse {
	cur, _ := sess.Current()
	st := sess.Trace().Stats()
	return sessionResponse{
		ID:      sess.ID(),
		Input:   sess.Input(),
		Steps:   sess.Len(),
		Cursor:  sess.Cursor(),
		AtEnd:   sess.AtEnd(),
		Current: cur,
		Stats: statsResponse{
			Steps:       st.Steps,
			Partitions:  st.Partitions,
			Comparisons: st.Comparisons,
			Swaps:       st.Swaps,
		},
	}
}

func (s *server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	var values []float64
	var err error
	switch {
	case req.Values != nil:
		values, err = sorter.FromAny(req.Values)
	case req.Size > 0:
		lo, hi := float64(session.DefaultMinValue), float64(session.DefaultMaxValue)
		if req.Min != nil {
			lo = *req.Min
		}
		if req.Max != nil {
			hi = *req.Max
		}
		values, err = session.Generate(req.Size, lo, hi, s.source)
	default:
		writeError(w, http.StatusBadRequest, `body needs "values" or a positive "size"`)
		return
	}
	if err != nil {
		writeInputError(w, err)
		return
	}

	sess, err := session.New(values, session.WithPivotSource(s.source))
	if err != nil {
		writeInputError(w, err)
		return
	}
	s.sessions.add(sess)
	logs.Infof("session %s created: %d values, %d steps", sess.ID(), len(values), sess.Len())

	w.Header().Set("Location", "/sessions/"+sess.ID())
	writeJSON(w, http.StatusCreated, newSessionResponse(sess))
}

func (s *server) handleList(w http.ResponseWriter, r *http.Request) {
	list := s.sessions.list()
	out := make([]sessionResponse, 0, len(list))
	for _, sess := range list {
		out = append(out, newSessionResponse(sess))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *server) handleGet(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, newSessionResponse(sess))
}

func (s *server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.sessions.remove(id) {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	logs.Debugf("session %s deleted", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleTrace(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, traceResponse{ID: sess.ID(), Snapshots: sess.Trace().Snapshots()})
}

func (s *server) handleStep(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "step index must be an integer")
		return
	}
	snap, ok := sess.Trace().Get(index)
	if !ok {
		writeError(w, http.StatusNotFound, "step index out of range")
		return
	}
	writeJSON(w, http.StatusOK, stepResponse{Index: index, Snapshot: snap})
}

func (s *server) handleMove(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}

	var moved bool
	before := sess.Cursor()
	switch chi.URLParam(r, "move") {
	case "next":
		moved = sess.Next()
	case "prev":
		moved = sess.Prev()
	case "first":
		sess.First()
		moved = sess.Cursor() != before
	case "last":
		sess.Last()
		moved = sess.Cursor() != before
	default:
		writeError(w, http.StatusNotFound, "unknown move")
		return
	}
	writeJSON(w, http.StatusOK, moveResponse{Moved: moved, sessionResponse: newSessionResponse(sess)})
}

func (s *server) lookup(w http.ResponseWriter, r *http.Request) (*session.SortSession, bool) {
	sess, ok := s.sessions.get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
	}
	return sess, ok
}

func writeInputError(w http.ResponseWriter, err error) {
	var inputErr *sorter.InvalidInputError
	if errors.As(err, &inputErr) {
		idx := inputErr.Index
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Index: &idx})
		return
	}
	writeError(w, http.StatusBadRequest, err.Error())
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logs.Warnf("write response: %v", err)
	}
}
