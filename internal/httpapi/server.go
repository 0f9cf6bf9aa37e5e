// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package httpapi exposes the rendezvous control plane's HTTP surface:
// GET /healthz, GET /metrics, and the six POST registry endpoints that
// drive the assign/register/ready/poll/complete/wait state machine.
package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/luxfi/memfabric-coord/internal/store"
	"github.com/luxfi/memfabric-coord/internal/telemetry"
)

// serverIdent is the informational Server header value.
const serverIdent = "memfabric-coord/0.1"

// Server wires a *store.Store to the registry HTTP contract.
type Server struct {
	store *store.Store
	log   *zap.Logger
	tel   *telemetry.Telemetry
}

// New constructs a Server. log and tel may be nil; nil log falls back to
// a no-op logger, nil tel disables /metrics registration for this
// instance (cmd/memfabric-coord always supplies one).
func New(st *store.Store, log *zap.Logger, tel *telemetry.Telemetry) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{store: st, log: log, tel: tel}
}

// Handler returns the configured *http.ServeMux wrapped so that unknown
// routes get the JSON 404 envelope and every response carries the Server
// header.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/v1/registry/assign", s.handleAssign)
	mux.HandleFunc("/v1/registry/register", s.handleRegister)
	mux.HandleFunc("/v1/registry/ready", s.handleReady)
	mux.HandleFunc("/v1/registry/poll", s.handlePoll)
	mux.HandleFunc("/v1/registry/complete", s.handleComplete)
	mux.HandleFunc("/v1/registry/wait", s.handleWait)
	if s.tel != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(s.tel.Registry(), promhttp.HandlerOpts{}))
	}

	return s.withServerIdent(s.withNotFound(mux))
}

// withServerIdent sets the informational Server header on every response.
func (s *Server) withServerIdent(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Server", serverIdent)
		next.ServeHTTP(w, r)
	})
}

// withNotFound maps ServeMux's default 404 page to the JSON error
// envelope spec'd for unknown routes.
func (s *Server) withNotFound(mux *http.ServeMux) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, pattern := mux.Handler(r); pattern == "" {
			writeError(w, errNotFound)
			return
		}
		mux.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, statusOnlyResponse{Status: "ok"})
}

func (s *Server) handleAssign(w http.ResponseWriter, r *http.Request) {
	var req assignRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.MyID == "" {
		writeError(w, errMissingMyID)
		return
	}

	role := s.store.Assign(modelKeyOf(req.ModelKey), req.MyID, req.RankInfo.toRankInfo())
	writeJSON(w, http.StatusOK, assignResponse{Role: role})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.MyID == "" {
		writeError(w, errMissingMyID)
		return
	}

	role := s.store.Register(modelKeyOf(req.ModelKey), store.RegisterInput{
		MyID:    req.MyID,
		Role:    parseOptionalRole(req.Role),
		Rank:    req.RankInfo.toRankInfo(),
		Params:  req.Params,
		Metrics: req.Metrics,
	})
	if s.tel != nil {
		s.tel.ObserveRegister(role)
	}
	writeJSON(w, http.StatusOK, registerResponse{Status: "ok", Role: role})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	var req readyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.MyID == "" {
		writeError(w, errMissingMyID)
		return
	}

	s.store.Ready(modelKeyOf(req.ModelKey), store.ReadyInput{
		MyID: req.MyID,
		Role: parseOptionalRole(req.Role),
		Rank: req.RankInfo.toRankInfo(),
	})
	writeJSON(w, http.StatusOK, statusOnlyResponse{Status: "ok"})
}

func (s *Server) handlePoll(w http.ResponseWriter, r *http.Request) {
	var req pollRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.MyID == "" {
		writeError(w, errMissingMyID)
		return
	}

	tasks := s.store.Poll(modelKeyOf(req.ModelKey), req.MyID)
	if s.tel != nil {
		s.tel.ObservePoll(len(tasks))
	}
	writeJSON(w, http.StatusOK, pollResponse{Tasks: tasks})
}

func (s *Server) handleComplete(w http.ResponseWriter, r *http.Request) {
	var req completeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.TransferID == "" {
		writeError(w, errMissingTransferID)
		return
	}

	s.store.Complete(req.TransferID)
	if s.tel != nil {
		s.tel.ObserveComplete()
	}
	writeJSON(w, http.StatusOK, statusOnlyResponse{Status: "ok"})
}

func (s *Server) handleWait(w http.ResponseWriter, r *http.Request) {
	var req waitRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.MyID == "" {
		writeError(w, errMissingMyID)
		return
	}

	status := s.store.Wait(modelKeyOf(req.ModelKey), req.MyID)
	writeJSON(w, http.StatusOK, waitResponse{Status: status})
}

// decodeJSON reads at most r.ContentLength bytes (when known) and decodes
// them into v. An empty body is treated as "{}" — every field keeps its
// zero value — rather than an error.
func decodeJSON(r *http.Request, v interface{}) *apiError {
	defer r.Body.Close()

	var body io.Reader = r.Body
	if r.ContentLength > 0 {
		body = io.LimitReader(r.Body, r.ContentLength)
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return errBadJSON
	}
	if len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return errBadJSON
	}
	return nil
}
