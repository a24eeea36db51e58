package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"pipeline/src/pipeline/domain/entity"
	domainCriteria "pipeline/src/shared/domain/criteria"
	sharedCriteria "pipeline/src/shared/infrastructure/criteria"

	"github.com/google/uuid"
)

// OpportunityPostgresRepository implementa OpportunityRepository usando PostgreSQL
type OpportunityPostgresRepository struct {
	db        *sql.DB
	converter *sharedCriteria.SQLCriteriaConverter
}

// NewOpportunityPostgresRepository crea una nueva instancia del repositorio
func NewOpportunityPostgresRepository(db *sql.DB) *OpportunityPostgresRepository {
	return &OpportunityPostgresRepository{
		db:        db,
		converter: sharedCriteria.NewSQLCriteriaConverter(),
	}
}

// Save persiste una oportunidad con sus items en la base de datos (DDD Aggregate)
func (r *OpportunityPostgresRepository) Save(ctx context.Context, opportunity *entity.Opportunity) error {
	// Iniciar transacción para garantizar atomicidad del aggregate
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	// 1. Insertar oportunidad (aggregate root)
	queryOpportunity := `
		INSERT INTO opportunities (
			id, tenant_id, title, stage, freight_mode,
			total_value, total_freight, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)
	`

	_, err = tx.ExecContext(ctx, queryOpportunity,
		opportunity.ID,
		opportunity.TenantID,
		opportunity.Title,
		opportunity.Stage,
		opportunity.FreightMode,
		opportunity.TotalValue,
		opportunity.TotalFreight,
		opportunity.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("error saving opportunity: %w", err)
	}

	// 2. Insertar items (entities dentro del aggregate)
	queryItem := `
		INSERT INTO line_items (
			id, opportunity_id, sku, product_name, quantity,
			unit_price, discount_percent, allocated_freight, updated_at, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		)
	`

	for _, item := range opportunity.Items {
		_, err = tx.ExecContext(ctx, queryItem,
			item.ID,
			opportunity.ID,
			item.SKU,
			item.ProductName,
			item.Quantity,
			item.UnitPrice,
			item.DiscountPercent,
			item.AllocatedFreight,
			item.UpdatedAt,
			opportunity.CreatedAt,
		)

		if err != nil {
			return fmt.Errorf("error saving line item: %w", err)
		}
	}

	// Commit transacción
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}

	return nil
}

// FindByID busca una oportunidad con sus items por su ID (DDD: load aggregate)
func (r *OpportunityPostgresRepository) FindByID(ctx context.Context, opportunityID, tenantID uuid.UUID) (*entity.Opportunity, error) {
	// 1. Buscar oportunidad (aggregate root)
	queryOpportunity := `
		SELECT id, tenant_id, title, stage, freight_mode,
			total_value, total_freight, created_at
		FROM opportunities
		WHERE id = $1 AND tenant_id = $2
	`

	opportunity := &entity.Opportunity{}
	err := r.db.QueryRowContext(ctx, queryOpportunity, opportunityID, tenantID).Scan(
		&opportunity.ID,
		&opportunity.TenantID,
		&opportunity.Title,
		&opportunity.Stage,
		&opportunity.FreightMode,
		&opportunity.TotalValue,
		&opportunity.TotalFreight,
		&opportunity.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, entity.ErrOpportunityNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error finding opportunity: %w", err)
	}

	// 2. Cargar items (entities dentro del aggregate)
	items, err := r.loadItems(ctx, opportunityID)
	if err != nil {
		return nil, err
	}
	opportunity.Items = items

	return opportunity, nil
}

// loadItems carga los items de una oportunidad en orden de creación
func (r *OpportunityPostgresRepository) loadItems(ctx context.Context, opportunityID uuid.UUID) ([]entity.LineItem, error) {
	queryItems := `
		SELECT id, opportunity_id, sku, product_name, quantity,
			unit_price, discount_percent, allocated_freight, updated_at
		FROM line_items
		WHERE opportunity_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.QueryContext(ctx, queryItems, opportunityID)
	if err != nil {
		return nil, fmt.Errorf("error finding line items: %w", err)
	}
	defer rows.Close()

	var items []entity.LineItem
	for rows.Next() {
		var item entity.LineItem
		err := rows.Scan(
			&item.ID,
			&item.OpportunityID,
			&item.SKU,
			&item.ProductName,
			&item.Quantity,
			&item.UnitPrice,
			&item.DiscountPercent,
			&item.AllocatedFreight,
			&item.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning line item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating line items: %w", err)
	}

	return items, nil
}

// Search lista oportunidades de un tenant según criteria, con el total para paginación
func (r *OpportunityPostgresRepository) Search(ctx context.Context, tenantID uuid.UUID, criteria domainCriteria.Criteria) ([]*entity.Opportunity, int, error) {
	// 1. Contar total según los mismos filtros
	baseCount := `SELECT COUNT(*) FROM opportunities WHERE tenant_id = $1`
	countQuery, countParams := r.converter.ToCountSQL(baseCount, 2, criteria)

	var totalCount int
	countArgs := append([]interface{}{tenantID}, countParams...)
	if err := r.db.QueryRowContext(ctx, countQuery, countArgs...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("error counting opportunities: %w", err)
	}

	// 2. Obtener oportunidades paginadas
	baseQuery := `
		SELECT id, tenant_id, title, stage, freight_mode,
			total_value, total_freight, created_at
		FROM opportunities
		WHERE tenant_id = $1`
	query, params := r.converter.ToSelectSQL(baseQuery, 2, criteria)

	args := append([]interface{}{tenantID}, params...)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing opportunities: %w", err)
	}
	defer rows.Close()

	var opportunities []*entity.Opportunity
	for rows.Next() {
		opportunity := &entity.Opportunity{}
		err := rows.Scan(
			&opportunity.ID,
			&opportunity.TenantID,
			&opportunity.Title,
			&opportunity.Stage,
			&opportunity.FreightMode,
			&opportunity.TotalValue,
			&opportunity.TotalFreight,
			&opportunity.CreatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning opportunity: %w", err)
		}
		opportunities = append(opportunities, opportunity)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating opportunities: %w", err)
	}

	// 3. Cargar items de cada oportunidad
	for _, opportunity := range opportunities {
		items, err := r.loadItems(ctx, opportunity.ID)
		if err != nil {
			return nil, 0, fmt.Errorf("error loading items for opportunity %s: %w", opportunity.ID, err)
		}
		opportunity.Items = items
	}

	return opportunities, totalCount, nil
}

// UpdateItemsBatch aplica un batch de ediciones con lock optimista por item.
// Los items sin conflicto se aplican atómicamente en una transacción; los
// conflictos se recolectan y reportan sin abortar el resto. Los totales
// derivados de la oportunidad se recalculan en la misma transacción.
func (r *OpportunityPostgresRepository) UpdateItemsBatch(ctx context.Context, opportunityID, tenantID uuid.UUID, updates []entity.ItemUpdate) (*entity.BatchResult, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	// 1. Verificar que la oportunidad pertenece al tenant
	var exists bool
	queryExists := `SELECT EXISTS(SELECT 1 FROM opportunities WHERE id = $1 AND tenant_id = $2)`
	if err := tx.QueryRowContext(ctx, queryExists, opportunityID, tenantID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("error checking opportunity: %w", err)
	}
	if !exists {
		return nil, entity.ErrOpportunityNotFound
	}

	result := &entity.BatchResult{}

	// 2. Aplicar cada item con chequeo de lock optimista
	for _, update := range updates {
		applied, err := r.applyItemUpdate(ctx, tx, opportunityID, update)
		if err != nil {
			return nil, err
		}
		if applied {
			result.AppliedCount++
			continue
		}

		// 0 filas: el item no existe o su timestamp avanzó (otro actor escribió)
		conflict, err := r.buildConflict(ctx, tx, opportunityID, update.ItemID)
		if err != nil {
			return nil, err
		}
		result.Conflicts = append(result.Conflicts, conflict)
	}

	// 3. Recalcular el total derivado de la oportunidad
	if result.AppliedCount > 0 {
		queryTotal := `
			UPDATE opportunities
			SET total_value = (
				SELECT COALESCE(SUM(ROUND(quantity * unit_price * (1 - discount_percent / 100.0), 2)), 0)
				FROM line_items
				WHERE opportunity_id = $1
			)
			WHERE id = $1
		`
		if _, err := tx.ExecContext(ctx, queryTotal, opportunityID); err != nil {
			return nil, fmt.Errorf("error recalculating opportunity total: %w", err)
		}
	}

	// Commit transacción: aplica atómicamente los items sin conflicto
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("error committing transaction: %w", err)
	}

	return result, nil
}

// applyItemUpdate intenta escribir los campos editados de un item.
// Retorna false (sin error) cuando el UPDATE no afecta filas.
func (r *OpportunityPostgresRepository) applyItemUpdate(ctx context.Context, tx *sql.Tx, opportunityID uuid.UUID, update entity.ItemUpdate) (bool, error) {
	// Construir el SET solo con los campos presentes
	var sets []string
	var args []interface{}

	argIdx := 1
	addSet := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%s", column, strconv.Itoa(argIdx)))
		args = append(args, value)
		argIdx++
	}

	if update.Quantity != nil {
		addSet("quantity", *update.Quantity)
	}
	if update.DiscountPercent != nil {
		addSet("discount_percent", *update.DiscountPercent)
	}
	if update.UnitPrice != nil {
		addSet("unit_price", *update.UnitPrice)
	}
	sets = append(sets, "updated_at = NOW()")

	query := fmt.Sprintf(`
		UPDATE line_items
		SET %s
		WHERE id = $%d AND opportunity_id = $%d`,
		strings.Join(sets, ", "), argIdx, argIdx+1,
	)
	args = append(args, update.ItemID, opportunityID)
	argIdx += 2

	// Chequeo de lock optimista: solo escribir si el timestamp no avanzó
	if update.LastKnownTimestamp != nil {
		query += fmt.Sprintf(" AND updated_at = $%d", argIdx)
		args = append(args, *update.LastKnownTimestamp)
	}

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("error updating line item %s: %w", update.ItemID, err)
	}

	rowsAffected, _ := res.RowsAffected()
	return rowsAffected > 0, nil
}

// buildConflict arma el conflicto de un item rechazado, leyendo el timestamp
// actual del servidor para que el cliente pueda recargar
func (r *OpportunityPostgresRepository) buildConflict(ctx context.Context, tx *sql.Tx, opportunityID, itemID uuid.UUID) (entity.ItemConflict, error) {
	query := `
		SELECT updated_at
		FROM line_items
		WHERE id = $1 AND opportunity_id = $2
	`

	var serverTimestamp sql.NullTime
	err := tx.QueryRowContext(ctx, query, itemID, opportunityID).Scan(&serverTimestamp)
	if err == sql.ErrNoRows {
		return entity.ItemConflict{
			ItemID: itemID,
			Reason: entity.ConflictReasonNotFound,
		}, nil
	}
	if err != nil {
		return entity.ItemConflict{}, fmt.Errorf("error reading line item %s: %w", itemID, err)
	}

	conflict := entity.ItemConflict{
		ItemID: itemID,
		Reason: entity.ConflictReasonStale,
	}
	if serverTimestamp.Valid {
		conflict.ServerTimestamp = &serverTimestamp.Time
	}
	return conflict, nil
}
