// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIDSetOf(t *testing.T) {
	require := require.New(t)

	s1 := newIDSet[string]()
	require.Equal(0, s1.len())

	s2 := newIDSet("a", "b", "c")
	require.Equal(3, s2.len())
	require.True(s2.contains("a"))
	require.True(s2.contains("b"))
	require.True(s2.contains("c"))

	s3 := newIDSet("a", "a", "b")
	require.Equal(2, s3.len())
}

func TestIDSetAddContains(t *testing.T) {
	require := require.New(t)

	s := make(idset[string])
	require.False(s.contains("x"))

	s.add("x")
	require.True(s.contains("x"))
	require.Equal(1, s.len())

	s.add("y", "z")
	require.Equal(3, s.len())
}

func TestIDSetClone(t *testing.T) {
	require := require.New(t)

	s := newIDSet("a", "b")
	c := s.clone()
	c.add("c")

	require.Equal(2, s.len())
	require.Equal(3, c.len())
	require.False(s.contains("c"))
}
