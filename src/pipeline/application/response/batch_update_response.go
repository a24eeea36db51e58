package response

import (
	"pipeline/src/pipeline/domain/entity"
)

// BatchUpdateResponse representa la respuesta del endpoint de batch update
type BatchUpdateResponse struct {
	AppliedCount int                   `json:"applied_count"`
	Conflicts    []entity.ItemConflict `json:"conflicts"`
}

// FromBatchResult convierte el resultado de dominio a response
func FromBatchResult(result *entity.BatchResult) *BatchUpdateResponse {
	conflicts := result.Conflicts
	if conflicts == nil {
		conflicts = []entity.ItemConflict{}
	}
	return &BatchUpdateResponse{
		AppliedCount: result.AppliedCount,
		Conflicts:    conflicts,
	}
}
