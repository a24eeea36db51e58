package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"pipeline/src/pipeline/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FreightPostgresRepository implementa AllocationRepository usando PostgreSQL
type FreightPostgresRepository struct {
	db *sql.DB
}

// NewFreightPostgresRepository crea una nueva instancia del repositorio
func NewFreightPostgresRepository(db *sql.DB) *FreightPostgresRepository {
	return &FreightPostgresRepository{
		db: db,
	}
}

// SaveAllocations persiste la confirmación de flete: total y carrier en la
// oportunidad, flete asignado por item, todo atómico
func (r *FreightPostgresRepository) SaveAllocations(
	ctx context.Context,
	opportunityID, tenantID uuid.UUID,
	carrierID uuid.UUID,
	totalFreight decimal.Decimal,
	allocations map[uuid.UUID]decimal.Decimal,
) error {
	// Iniciar transacción para garantizar atomicidad
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	// 1. Actualizar oportunidad con el flete confirmado
	queryOpportunity := `
		UPDATE opportunities
		SET total_freight = $1, carrier_id = $2
		WHERE id = $3 AND tenant_id = $4
	`

	res, err := tx.ExecContext(ctx, queryOpportunity, totalFreight, carrierID, opportunityID, tenantID)
	if err != nil {
		return fmt.Errorf("error updating opportunity freight: %w", err)
	}

	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		// La oportunidad desapareció o pertenece a otro tenant
		return entity.ErrOpportunityNotFound
	}

	// 2. Escribir el flete asignado en cada item.
	// El updated_at avanza: una confirmación de flete cuenta como escritura
	// para el lock optimista de los editores concurrentes.
	queryItem := `
		UPDATE line_items
		SET allocated_freight = $1, updated_at = NOW()
		WHERE id = $2 AND opportunity_id = $3
	`

	for itemID, allocated := range allocations {
		_, err = tx.ExecContext(ctx, queryItem, allocated, itemID, opportunityID)
		if err != nil {
			return fmt.Errorf("error saving allocated freight for item %s: %w", itemID, err)
		}
	}

	// Commit transacción
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}

	return nil
}
