// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package dispatch implements the readiness gate and task-emission logic
// that pairs a rank's source with its receivers. Callers must hold the
// owning store's lock before calling MaybeEmitTasks.
package dispatch

import (
	"github.com/luxfi/memfabric-coord/internal/model"
)

// TransferIDAllocator returns the next transfer ID. The caller (store)
// owns the counter and the lock; dispatch only consumes one ID per task.
type TransferIDAllocator func() string

// MaybeEmitTasks is the heart of the control plane. Given a model's state
// and a rank key, it checks whether both sides of the rank-pair have
// signaled readiness and, if so, materializes one pending task per
// not-yet-bound receiver.
//
// Preconditions: the caller holds the owning store's lock.
//
// Emission is idempotent: a receiver whose TransferID is already latched
// is skipped, so calling this repeatedly (from both register and ready)
// never double-emits.
func MaybeEmitTasks(state *model.ModelState, rankKey string, nextTransferID TransferIDAllocator) {
	if !state.HasReadySource(rankKey) || !state.HasReadyReceiver(rankKey) {
		return
	}

	source, ok := state.Sources[rankKey]
	if !ok {
		// Source readiness was signaled before registration completed.
		return
	}

	receivers := state.Receivers[rankKey]
	for _, recv := range receivers {
		if recv.TransferID != "" {
			continue
		}

		tid := nextTransferID()
		task := model.Task{
			TransferID: tid,
			PeerID:     recv.MyID,
			DstParams:  recv.Params,
		}

		state.Pending[source.MyID] = append(state.Pending[source.MyID], task)
		state.TransferStatus[tid] = model.StatusPending
		state.ReceiverTransfers[recv.MyID] = append(state.ReceiverTransfers[recv.MyID], tid)
		recv.TransferID = tid
	}
}
