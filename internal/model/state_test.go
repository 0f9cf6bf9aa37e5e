// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewModelStateIsEmpty(t *testing.T) {
	require := require.New(t)

	s := NewModelState()
	require.Empty(s.SourceAssignments)
	require.Empty(s.Sources)
	require.Empty(s.Receivers)
	require.False(s.HasReadySource("tp:0|pp:0|dp:0"))
	require.False(s.HasReadyReceiver("tp:0|pp:0|dp:0"))
}

func TestMarkReadySeparatesSourcesAndReceivers(t *testing.T) {
	require := require.New(t)

	s := NewModelState()
	rankKey := "tp:0|pp:0|dp:0"

	s.MarkReady(RoleSource, rankKey, "A:1")
	require.True(s.HasReadySource(rankKey))
	require.False(s.HasReadyReceiver(rankKey))

	s.MarkReady(RoleReceiver, rankKey, "B:1")
	require.True(s.HasReadyReceiver(rankKey))
}

func TestParseRoleCoercesUnknown(t *testing.T) {
	require := require.New(t)

	require.Equal(RoleSource, ParseRole("source"))
	require.Equal(RoleReceiver, ParseRole("receiver"))
	require.Equal(RoleSource, ParseRole("bogus"))
	require.Equal(RoleSource, ParseRole(""))
}
