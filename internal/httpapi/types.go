// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package httpapi

import (
	"github.com/luxfi/memfabric-coord/internal/identity"
	"github.com/luxfi/memfabric-coord/internal/model"
)

// wireRankInfo mirrors identity.RankInfo at the JSON boundary; all three
// fields default to zero when absent.
type wireRankInfo struct {
	TP int `json:"tp"`
	PP int `json:"pp"`
	DP int `json:"dp"`
}

func (w wireRankInfo) toRankInfo() identity.RankInfo {
	return identity.RankInfo{TP: w.TP, PP: w.PP, DP: w.DP}
}

// modelKeyOf canonicalizes the structured model_key payload into the
// string key internal/store indexes ModelStates by. Two requests whose
// model_key fields are identical but arrive in different JSON field
// order canonicalize to the same string.
func modelKeyOf(id identity.ModelIdentity) string {
	return identity.CanonicalKey(id)
}

type assignRequest struct {
	ModelKey identity.ModelIdentity `json:"model_key"`
	MyID     string                 `json:"my_id"`
	RankInfo wireRankInfo           `json:"rank_info"`
}

type assignResponse struct {
	Role model.Role `json:"role"`
}

type registerRequest struct {
	ModelKey identity.ModelIdentity `json:"model_key"`
	MyID     string                 `json:"my_id"`
	Role     string                 `json:"role"`
	RankInfo wireRankInfo           `json:"rank_info"`
	Params   model.ParamMap         `json:"params"`
	Metrics  map[string]any         `json:"metrics"`
}

type registerResponse struct {
	Status string     `json:"status"`
	Role   model.Role `json:"role"`
}

type readyRequest struct {
	ModelKey identity.ModelIdentity `json:"model_key"`
	MyID     string                 `json:"my_id"`
	Role     string                 `json:"role"`
	RankInfo wireRankInfo           `json:"rank_info"`
}

type statusOnlyResponse struct {
	Status string `json:"status"`
}

type pollRequest struct {
	ModelKey identity.ModelIdentity `json:"model_key"`
	MyID     string                 `json:"my_id"`
}

type pollResponse struct {
	Tasks []model.Task `json:"tasks"`
}

type completeRequest struct {
	TransferID string `json:"transfer_id"`
}

type waitRequest struct {
	ModelKey identity.ModelIdentity `json:"model_key"`
	MyID     string                 `json:"my_id"`
}

type waitResponse struct {
	Status string `json:"status"`
}

// parseOptionalRole returns nil (meaning "unspecified — use cached
// assignment") when s is empty, else the coerced Role.
func parseOptionalRole(s string) *model.Role {
	if s == "" {
		return nil
	}
	r := model.ParseRole(s)
	return &r
}
