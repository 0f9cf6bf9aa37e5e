// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package identity canonicalizes model-identity and rank-coordinate values
// into stable string keys, and formats transfer IDs.
package identity

import (
	"fmt"
	"sort"
	"strings"
)

// ModelIdentity structurally describes a model's parameters: name,
// revision, numeric precision, parallelism degrees, the implementation
// variant that produced it, and its architecture stack. Two identities are
// equal iff CanonicalKey produces the same string for both.
type ModelIdentity struct {
	Name                   string   `json:"model_name"`
	Revision               string   `json:"revision"`
	DType                  string   `json:"dtype"`
	Quantization           string   `json:"quantization"`
	TensorParallelDegree   int      `json:"tp_degree"`
	PipelineParallelDegree int      `json:"pp_degree"`
	DataParallelDegree     int      `json:"dp_degree"`
	ImplVariant            string   `json:"impl_variant"`
	Architectures          []string `json:"architectures"`
}

// RankInfo is the (tp, pp, dp) rank-coordinate triple. Missing fields
// default to zero.
type RankInfo struct {
	TP int `json:"tp"`
	PP int `json:"pp"`
	DP int `json:"dp"`
}

// CanonicalKey produces a byte-stable serialization of a ModelIdentity's
// fields in a fixed order, independent of JSON map-key ordering, so that
// semantically equal identities always produce literally equal keys.
func CanonicalKey(id ModelIdentity) string {
	archs := make([]string, len(id.Architectures))
	copy(archs, id.Architectures)
	sort.Strings(archs)

	var sb strings.Builder
	fmt.Fprintf(&sb, "name=%s|revision=%s|dtype=%s|quant=%s|tp=%d|pp=%d|dp=%d|variant=%s|archs=%s",
		id.Name,
		id.Revision,
		id.DType,
		id.Quantization,
		id.TensorParallelDegree,
		id.PipelineParallelDegree,
		id.DataParallelDegree,
		id.ImplVariant,
		strings.Join(archs, ","),
	)
	return sb.String()
}

// RankKey returns the fixed-form rank key "tp:<tp>|pp:<pp>|dp:<dp>" for a
// rank coordinate. Equal coordinates always produce literally equal keys.
func RankKey(r RankInfo) string {
	return fmt.Sprintf("tp:%d|pp:%d|dp:%d", r.TP, r.PP, r.DP)
}

// FormatTransferID renders a transfer sequence number in the wire form
// "t<N>". The sequence number itself is allocated by the store under its
// lock; this is pure formatting.
func FormatTransferID(seq int64) string {
	return fmt.Sprintf("t%d", seq)
}
