// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package store owns the process-wide registry: a single mutex-protected
// map from canonical model-identity key to ModelState, plus the
// monotonic transfer-ID counter. It is the sole mutation entry point for
// the rendezvous control plane; internal/dispatch's MaybeEmitTasks is
// invoked from here while the lock is held.
package store

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/luxfi/memfabric-coord/internal/dispatch"
	"github.com/luxfi/memfabric-coord/internal/identity"
	"github.com/luxfi/memfabric-coord/internal/model"
)

// Store is a single process-wide value. Lock acquisition is never nested
// across different ModelStates: one request touches exactly one model.
type Store struct {
	mu             sync.Mutex
	models         map[string]*model.ModelState
	nextTransferID int64

	log *zap.Logger
}

// New returns an empty Store. log may be nil, in which case a no-op
// logger is used.
func New(log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		models: make(map[string]*model.ModelState),
		log:    log,
	}
}

// modelState returns the ModelState for modelKey, creating it on first
// reference. Must be called with s.mu held.
func (s *Store) modelState(modelKey string) *model.ModelState {
	ms, ok := s.models[modelKey]
	if !ok {
		ms = model.NewModelState()
		s.models[modelKey] = ms
	}
	return ms
}

// newTransferID atomically increments the counter and formats it. Must be
// called with s.mu held.
func (s *Store) newTransferID() string {
	s.nextTransferID++
	return identity.FormatTransferID(s.nextTransferID)
}

// Assign implements POST /v1/registry/assign: idempotent role assignment
// with first-writer-wins semantics for the source slot of a rank.
func (s *Store) Assign(modelKey, myID string, rank identity.RankInfo) model.Role {
	s.mu.Lock()
	defer s.mu.Unlock()

	ms := s.modelState(modelKey)
	if role, ok := ms.Assignments[myID]; ok {
		return role
	}

	rankKey := identity.RankKey(rank)
	var role model.Role
	if existing, ok := ms.SourceAssignments[rankKey]; ok && existing != myID {
		role = model.RoleReceiver
	} else {
		role = model.RoleSource
		ms.SourceAssignments[rankKey] = myID
	}
	ms.Assignments[myID] = role

	s.log.Info("assigned role",
		zap.String("model_key", modelKey),
		zap.String("my_id", myID),
		zap.String("rank_key", rankKey),
		zap.String("role", string(role)),
	)
	return role
}

// RegisterInput carries the fields of a /register call.
type RegisterInput struct {
	MyID    string
	Role    *model.Role // nil means "use cached assignment, defaulting to source"
	Rank    identity.RankInfo
	Params  model.ParamMap
	Metrics map[string]any
}

// Register implements POST /v1/registry/register: overwrites the
// participant's descriptor and, if this newly satisfies the readiness
// gate, emits tasks.
func (s *Store) Register(modelKey string, in RegisterInput) model.Role {
	s.mu.Lock()
	defer s.mu.Unlock()

	ms := s.modelState(modelKey)
	rankKey := identity.RankKey(in.Rank)

	role := s.resolveRole(ms, in.MyID, in.Role)

	desc := &model.Participant{
		MyID:         in.MyID,
		Role:         role,
		Rank:         in.Rank,
		Params:       in.Params,
		Metrics:      in.Metrics,
		RegisteredAt: time.Now(),
	}

	if role == model.RoleSource {
		ms.SourceAssignments[rankKey] = in.MyID
		ms.Sources[rankKey] = desc
	} else {
		bucket, ok := ms.Receivers[rankKey]
		if !ok {
			bucket = make(map[string]*model.Participant)
			ms.Receivers[rankKey] = bucket
		}
		// Re-registration overwrites the descriptor but preserves any
		// transfer ID already latched by a prior emission.
		if prior, ok := bucket[in.MyID]; ok {
			desc.TransferID = prior.TransferID
		}
		bucket[in.MyID] = desc
	}
	ms.Assignments[in.MyID] = role

	dispatch.MaybeEmitTasks(ms, rankKey, s.newTransferID)

	s.log.Info("registered participant",
		zap.String("model_key", modelKey),
		zap.String("my_id", in.MyID),
		zap.String("rank_key", rankKey),
		zap.String("role", string(role)),
	)
	return role
}

// ReadyInput carries the fields of a /ready call.
type ReadyInput struct {
	MyID string
	Role *model.Role
	Rank identity.RankInfo
}

// Ready implements POST /v1/registry/ready: the explicit readiness gate.
func (s *Store) Ready(modelKey string, in ReadyInput) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ms := s.modelState(modelKey)
	rankKey := identity.RankKey(in.Rank)
	role := s.resolveReadyRole(ms, in.MyID, in.Role)

	ms.MarkReady(role, rankKey, in.MyID)
	dispatch.MaybeEmitTasks(ms, rankKey, s.newTransferID)

	s.log.Info("marked ready",
		zap.String("model_key", modelKey),
		zap.String("my_id", in.MyID),
		zap.String("rank_key", rankKey),
		zap.String("role", string(role)),
	)
}

// Poll implements POST /v1/registry/poll: an atomic read-and-clear of a
// source's pending queue.
func (s *Store) Poll(modelKey, myID string) []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	ms := s.modelState(modelKey)
	tasks := ms.Pending[myID]
	delete(ms.Pending, myID)
	if tasks == nil {
		tasks = []model.Task{}
	}
	return tasks
}

// Complete implements POST /v1/registry/complete: scans all models for a
// matching transfer ID and transitions it to done. Unknown IDs are a
// silent no-op, and repeated completion of the same ID is idempotent.
func (s *Store) Complete(transferID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ms := range s.models {
		if _, ok := ms.TransferStatus[transferID]; ok {
			ms.TransferStatus[transferID] = model.StatusDone
			s.log.Info("transfer completed", zap.String("transfer_id", transferID))
			return
		}
	}
}

// Wait implements POST /v1/registry/wait: reports "done" only once every
// transfer bound to myID has completed, "wait" otherwise (including when
// no task has been emitted yet).
func (s *Store) Wait(modelKey, myID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ms := s.modelState(modelKey)
	tids := ms.ReceiverTransfers[myID]
	if len(tids) == 0 {
		return "wait"
	}
	for _, tid := range tids {
		if ms.TransferStatus[tid] != model.StatusDone {
			return "wait"
		}
	}
	return "done"
}

// resolveRole returns the effective role for a /register request: the
// explicit argument if given, else the cached assignment, defaulting to
// source. Must be called with s.mu held.
func (s *Store) resolveRole(ms *model.ModelState, myID string, explicit *model.Role) model.Role {
	if explicit != nil {
		return *explicit
	}
	if role, ok := ms.Assignments[myID]; ok {
		return role
	}
	return model.RoleSource
}

// resolveReadyRole returns the effective role for a /ready request: the
// explicit argument if given, else the cached assignment, defaulting to
// receiver. An unresolved my_id routes into ready_receivers rather than
// ready_sources, matching the reference coordinator's handling of an
// unassigned participant calling ready. Must be called with s.mu held.
func (s *Store) resolveReadyRole(ms *model.ModelState, myID string, explicit *model.Role) model.Role {
	if explicit != nil {
		return *explicit
	}
	if role, ok := ms.Assignments[myID]; ok {
		return role
	}
	return model.RoleReceiver
}
