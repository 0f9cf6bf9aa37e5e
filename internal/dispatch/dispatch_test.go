// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package dispatch

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/memfabric-coord/internal/model"
)

func counter() TransferIDAllocator {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("t%d", n)
	}
}

func TestMaybeEmitTasksNoopWithoutBothReady(t *testing.T) {
	require := require.New(t)

	s := model.NewModelState()
	rankKey := "tp:0|pp:0|dp:0"
	s.Sources[rankKey] = &model.Participant{MyID: "A:1"}
	s.Receivers[rankKey] = map[string]*model.Participant{"B:1": {MyID: "B:1"}}
	s.MarkReady(model.RoleSource, rankKey, "A:1")

	MaybeEmitTasks(s, rankKey, counter())

	require.Empty(s.Pending)
	require.Empty(s.TransferStatus)
}

func TestMaybeEmitTasksNoopWithoutSourceDescriptor(t *testing.T) {
	require := require.New(t)

	s := model.NewModelState()
	rankKey := "tp:0|pp:0|dp:0"
	s.Receivers[rankKey] = map[string]*model.Participant{"B:1": {MyID: "B:1"}}
	s.MarkReady(model.RoleSource, rankKey, "A:1")
	s.MarkReady(model.RoleReceiver, rankKey, "B:1")

	MaybeEmitTasks(s, rankKey, counter())

	require.Empty(s.Pending)
}

func TestMaybeEmitTasksHappyPath(t *testing.T) {
	require := require.New(t)

	s := model.NewModelState()
	rankKey := "tp:0|pp:0|dp:0"
	s.Sources[rankKey] = &model.Participant{MyID: "A:1"}
	s.Receivers[rankKey] = map[string]*model.Participant{
		"B:1": {MyID: "B:1", Params: model.ParamMap{"w": {Addr: 0x2000, Bytes: 4194304}}},
	}
	s.MarkReady(model.RoleSource, rankKey, "A:1")
	s.MarkReady(model.RoleReceiver, rankKey, "B:1")

	MaybeEmitTasks(s, rankKey, counter())

	require.Len(s.Pending["A:1"], 1)
	task := s.Pending["A:1"][0]
	require.Equal("t1", task.TransferID)
	require.Equal("B:1", task.PeerID)
	require.Equal(uint64(0x2000), task.DstParams["w"].Addr)
	require.Equal(model.StatusPending, s.TransferStatus["t1"])
	require.Equal([]string{"t1"}, s.ReceiverTransfers["B:1"])
	require.Equal("t1", s.Receivers[rankKey]["B:1"].TransferID)
}

func TestMaybeEmitTasksFanOut(t *testing.T) {
	require := require.New(t)

	s := model.NewModelState()
	rankKey := "tp:0|pp:0|dp:0"
	s.Sources[rankKey] = &model.Participant{MyID: "A:1"}
	s.Receivers[rankKey] = map[string]*model.Participant{
		"B:1": {MyID: "B:1", Params: model.ParamMap{"w": {Addr: 1, Bytes: 1}}},
		"C:1": {MyID: "C:1", Params: model.ParamMap{"w": {Addr: 2, Bytes: 1}}},
	}
	s.MarkReady(model.RoleSource, rankKey, "A:1")
	s.MarkReady(model.RoleReceiver, rankKey, "B:1")
	s.MarkReady(model.RoleReceiver, rankKey, "C:1")

	MaybeEmitTasks(s, rankKey, counter())

	require.Len(s.Pending["A:1"], 2)

	ids := map[string]bool{}
	for _, task := range s.Pending["A:1"] {
		ids[task.TransferID] = true
	}
	require.Len(ids, 2)
}

func TestMaybeEmitTasksIsIdempotentPerReceiver(t *testing.T) {
	require := require.New(t)

	s := model.NewModelState()
	rankKey := "tp:0|pp:0|dp:0"
	s.Sources[rankKey] = &model.Participant{MyID: "A:1"}
	s.Receivers[rankKey] = map[string]*model.Participant{
		"B:1": {MyID: "B:1", Params: model.ParamMap{"w": {Addr: 1, Bytes: 1}}},
	}
	s.MarkReady(model.RoleSource, rankKey, "A:1")
	s.MarkReady(model.RoleReceiver, rankKey, "B:1")

	alloc := counter()
	MaybeEmitTasks(s, rankKey, alloc)
	MaybeEmitTasks(s, rankKey, alloc)
	MaybeEmitTasks(s, rankKey, alloc)

	require.Len(s.Pending["A:1"], 1)
}
