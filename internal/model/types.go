// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package model holds the pure, lock-free domain types for the rendezvous
// registry: model state, participant descriptors, and tasks. It has no
// synchronization of its own — internal/store owns the mutex that guards
// these types, and internal/dispatch implements the logic that mutates
// them.
package model

import (
	"time"

	"github.com/luxfi/memfabric-coord/internal/identity"
)

// Role is a participant's place in a rank-pair.
type Role string

const (
	RoleSource   Role = "source"
	RoleReceiver Role = "receiver"
)

// ParseRole coerces an arbitrary wire-level role string to a Role. Any
// value other than "receiver" is coerced to RoleSource, matching the
// reference coordinator's permissive behavior at the wire boundary.
func ParseRole(s string) Role {
	if s == string(RoleReceiver) {
		return RoleReceiver
	}
	return RoleSource
}

// ParamDescriptor names a registered parameter's device address and size.
type ParamDescriptor struct {
	Addr  uint64 `json:"addr"`
	Bytes uint64 `json:"bytes"`
}

// ParamMap is a parameter name to descriptor map.
type ParamMap map[string]ParamDescriptor

// Participant is one source or receiver bound to a rank coordinate.
type Participant struct {
	MyID         string
	Role         Role
	Rank         identity.RankInfo
	Params       ParamMap
	Metrics      map[string]any
	RegisteredAt time.Time

	// TransferID latches to the first transfer_id emitted for this
	// receiver; empty until dispatch.MaybeEmitTasks binds it. Unused for
	// sources.
	TransferID string
}

// Task is emitted exactly once per (rank-pair, receiver) once both sides
// of the pair are ready.
type Task struct {
	TransferID string   `json:"transfer_id"`
	PeerID     string   `json:"peer_id"`
	DstParams  ParamMap `json:"dst_params"`
}

// TransferStatus is the one-way lifecycle of an emitted task.
type TransferStatus string

const (
	StatusPending TransferStatus = "pending"
	StatusDone    TransferStatus = "done"
)

// ModelState is the per-model-identity registry described in spec §3.
type ModelState struct {
	// SourceAssignments maps rank-key to the my_id currently assigned
	// source for that rank.
	SourceAssignments map[string]string

	// Assignments caches each my_id's role for idempotent re-assignment.
	Assignments map[string]Role

	// Sources maps rank-key to the bound source's descriptor.
	Sources map[string]*Participant

	// Receivers maps rank-key to my_id to descriptor.
	Receivers map[string]map[string]*Participant

	// ReadySources and ReadyReceivers map rank-key to the set of my_ids
	// that have signaled readiness for that side. Structured as a nested
	// map rather than a flat "rank-key|my_id" set for O(1) lookups, per
	// spec §9's suggested alternative.
	ReadySources   map[string]idset[string]
	ReadyReceivers map[string]idset[string]

	// Pending maps a source's my_id to its ordered queue of tasks
	// awaiting poll.
	Pending map[string][]Task

	// TransferStatus maps transfer_id to its lifecycle status.
	TransferStatus map[string]TransferStatus

	// ReceiverTransfers maps a receiver's my_id to every transfer_id
	// whose completion unblocks it.
	ReceiverTransfers map[string][]string
}

// NewModelState allocates an empty ModelState. Called lazily on first
// reference to a model identity; the result lives for the process
// lifetime.
func NewModelState() *ModelState {
	return &ModelState{
		SourceAssignments: make(map[string]string),
		Assignments:       make(map[string]Role),
		Sources:           make(map[string]*Participant),
		Receivers:         make(map[string]map[string]*Participant),
		ReadySources:      make(map[string]idset[string]),
		ReadyReceivers:    make(map[string]idset[string]),
		Pending:           make(map[string][]Task),
		TransferStatus:    make(map[string]TransferStatus),
		ReceiverTransfers: make(map[string][]string),
	}
}

// MarkReady records that myID (in the given role) has signaled readiness
// for rankKey.
func (m *ModelState) MarkReady(role Role, rankKey, myID string) {
	var bucket map[string]idset[string]
	if role == RoleSource {
		bucket = m.ReadySources
	} else {
		bucket = m.ReadyReceivers
	}
	s, ok := bucket[rankKey]
	if !ok {
		s = newIDSet[string]()
		bucket[rankKey] = s
	}
	s.add(myID)
}

// HasReadySource reports whether any source has signaled readiness for
// rankKey.
func (m *ModelState) HasReadySource(rankKey string) bool {
	s, ok := m.ReadySources[rankKey]
	return ok && s.len() > 0
}

// HasReadyReceiver reports whether any receiver has signaled readiness for
// rankKey.
func (m *ModelState) HasReadyReceiver(rankKey string) bool {
	s, ok := m.ReadyReceivers[rankKey]
	return ok && s.len() > 0
}
