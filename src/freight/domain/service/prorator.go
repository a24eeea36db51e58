package service

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemValue es la base de prorrateo de un item: su valor antes de flete
type ItemValue struct {
	ID    uuid.UUID
	Value decimal.Decimal
}

// ProrateFreight distribuye el flete total entre los items en proporción a su
// valor, con corrección de resto sobre el item de mayor valor para que la suma
// de las asignaciones sea exactamente igual al total (a 2 decimales).
//
// Casos degenerados: sin items, flete no positivo o valor total no positivo
// devuelven un mapa vacío ("no hay prorrateo"), nunca un error.
func ProrateFreight(items []ItemValue, totalFreight decimal.Decimal) map[uuid.UUID]decimal.Decimal {
	allocations := make(map[uuid.UUID]decimal.Decimal)

	if len(items) == 0 || totalFreight.LessThanOrEqual(decimal.Zero) {
		return allocations
	}

	// 1. Valor total como base de proporción
	totalValue := decimal.Zero
	for _, item := range items {
		totalValue = totalValue.Add(item.Value)
	}
	if totalValue.LessThanOrEqual(decimal.Zero) {
		// Prorrateo indefinido sin base válida
		return allocations
	}

	// 2. Asignación proporcional redondeada a 2 decimales (half-up)
	sumAllocated := decimal.Zero
	largestIdx := 0
	for i, item := range items {
		share := totalFreight.Mul(item.Value).Div(totalValue).Round(2)
		allocations[item.ID] = share
		sumAllocated = sumAllocated.Add(share)

		// Item de mayor valor estricto; empate queda con el primero
		if item.Value.GreaterThan(items[largestIdx].Value) {
			largestIdx = i
		}
	}

	// 3. Corregir la deriva de redondeo sobre el item de mayor valor
	remainder := totalFreight.Sub(sumAllocated).Round(2)
	if !remainder.IsZero() {
		largestID := items[largestIdx].ID
		allocations[largestID] = allocations[largestID].Add(remainder)
	}

	return allocations
}
