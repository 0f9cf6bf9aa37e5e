// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package model

import (
	"golang.org/x/exp/maps"
)

// idset is a set of unique comparable values, used to track which my_ids
// have signaled readiness for a given rank.
type idset[T comparable] map[T]struct{}

func newIDSet[T comparable](elts ...T) idset[T] {
	s := make(idset[T], len(elts))
	s.add(elts...)
	return s
}

func (s idset[T]) add(elts ...T) {
	for _, elt := range elts {
		s[elt] = struct{}{}
	}
}

func (s idset[T]) contains(elt T) bool {
	_, ok := s[elt]
	return ok
}

func (s idset[T]) len() int {
	return len(s)
}

func (s idset[T]) clone() idset[T] {
	result := make(idset[T], len(s))
	maps.Copy(result, s)
	return result
}
