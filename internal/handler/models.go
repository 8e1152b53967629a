package handler

import (
	"studyvault/internal/domain/models"
	"studyvault/internal/service"
)

// materialResponse decorates a material with the hours left in its grace
// window. The field is zero for anything not rejected and omitted then.
type materialResponse struct {
	models.Material
	RemainingGraceHours int `json:"remaining_grace_hours,omitempty"`
}

func toMaterialResponse(svc *service.LifecycleService, m *models.Material) materialResponse {
	return materialResponse{
		Material:            *m,
		RemainingGraceHours: svc.RemainingGraceHours(m),
	}
}

func toMaterialResponses(svc *service.LifecycleService, materials []models.Material) []materialResponse {
	out := make([]materialResponse, 0, len(materials))
	for i := range materials {
		out = append(out, toMaterialResponse(svc, &materials[i]))
	}
	return out
}
