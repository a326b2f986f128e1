package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"hospverse-api/internal/domain"
)

// PostgresInventoryRepository implements InventoryRepository over products
// and inventory_logs.
type PostgresInventoryRepository struct {
	db *sql.DB
}

func NewPostgresInventoryRepository(db *sql.DB) *PostgresInventoryRepository {
	return &PostgresInventoryRepository{db: db}
}

var _ InventoryRepository = (*PostgresInventoryRepository)(nil)

const productColumns = `
	id,
	client_id,
	name,
	COALESCE(category, '') AS category,
	COALESCE(batch_number, '') AS batch_number,
	COALESCE(vendor, '') AS vendor,
	COALESCE(cost_price, 0) AS cost_price,
	COALESCE(selling_price, 0) AS selling_price,
	COALESCE(current_stock, 0) AS current_stock,
	COALESCE(min_stock_level, 0) AS min_stock_level,
	COALESCE(max_stock_level, 0) AS max_stock_level,
	COALESCE(unit, '') AS unit,
	COALESCE(expiry_date::text, '') AS expiry_date,
	COALESCE(manufacturing_date::text, '') AS manufacturing_date,
	COALESCE(location, '') AS location,
	COALESCE(description, '') AS description,
	COALESCE(is_active, true) AS is_active,
	COALESCE(created_at::text, '') AS created_at,
	COALESCE(updated_at::text, '') AS updated_at,
	COALESCE(last_used::text, '') AS last_used,
	COALESCE(auto_deduct_enabled, false) AS auto_deduct_enabled,
	COALESCE(treatment_types, '[]'::jsonb) AS treatment_types`

func scanProduct(row interface{ Scan(...any) error }) (*domain.Product, error) {
	var p domain.Product
	var treatmentsRaw []byte
	err := row.Scan(
		&p.ID, &p.ClientID, &p.Name, &p.Category, &p.BatchNumber, &p.Vendor,
		&p.CostPrice, &p.SellingPrice, &p.CurrentStock, &p.MinStockLevel,
		&p.MaxStockLevel, &p.Unit, &p.ExpiryDate, &p.ManufacturingDate,
		&p.Location, &p.Description, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
		&p.LastUsed, &p.AutoDeductEnabled, &treatmentsRaw,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(treatmentsRaw, &p.TreatmentTypes); err != nil {
		return nil, fmt.Errorf("failed to decode treatment_types: %w", err)
	}
	return &p, nil
}

func (r *PostgresInventoryRepository) ListProducts(ctx context.Context, clientID string, filter ProductFilters) ([]*domain.Product, error) {
	if clientID == "" {
		return nil, fmt.Errorf("client_id is required")
	}
	where := []string{"client_id = $1"}
	args := []any{clientID}
	argIdx := 2

	if filter.Category != "" {
		where = append(where, fmt.Sprintf("category = $%d", argIdx))
		args = append(args, filter.Category)
		argIdx++
	}
	if filter.Search != "" {
		where = append(where, fmt.Sprintf("name ILIKE $%d", argIdx))
		args = append(args, "%"+filter.Search+"%")
		argIdx++
	}
	if filter.ActiveOnly {
		where = append(where, "COALESCE(is_active, true) = true")
	}

	query := fmt.Sprintf(`SELECT %s FROM products WHERE %s ORDER BY name`,
		productColumns, strings.Join(where, " AND "))
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}
	return products, nil
}

func (r *PostgresInventoryRepository) GetProduct(ctx context.Context, clientID, id string) (*domain.Product, error) {
	if clientID == "" || id == "" {
		return nil, fmt.Errorf("client_id and id are required")
	}
	query := fmt.Sprintf(`SELECT %s FROM products WHERE client_id = $1 AND id = $2`, productColumns)
	p, err := scanProduct(r.db.QueryRowContext(ctx, query, clientID, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("product not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return p, nil
}

func (r *PostgresInventoryRepository) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if product == nil || product.ClientID == "" {
		return nil, fmt.Errorf("client_id is required")
	}
	if product.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	if product.TreatmentTypes == nil {
		product.TreatmentTypes = []string{}
	}
	treatmentsRaw, err := json.Marshal(product.TreatmentTypes)
	if err != nil {
		return nil, fmt.Errorf("failed to encode treatment_types: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO products (
			id, client_id, name, category, batch_number, vendor, cost_price,
			selling_price, current_stock, min_stock_level, max_stock_level,
			unit, expiry_date, manufacturing_date, location, description,
			is_active, created_at, updated_at, auto_deduct_enabled, treatment_types
		) VALUES (
			$1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), $7, $8, $9, $10,
			$11, NULLIF($12, ''), NULLIF($13, '')::date, NULLIF($14, '')::date,
			NULLIF($15, ''), NULLIF($16, ''), $17,
			NULLIF($18, '')::timestamptz, NULLIF($19, '')::timestamptz,
			$20, $21::jsonb
		)`,
		product.ID, product.ClientID, product.Name, product.Category,
		product.BatchNumber, product.Vendor, product.CostPrice,
		product.SellingPrice, product.CurrentStock, product.MinStockLevel,
		product.MaxStockLevel, product.Unit, product.ExpiryDate,
		product.ManufacturingDate, product.Location, product.Description,
		product.IsActive, product.CreatedAt, product.UpdatedAt,
		product.AutoDeductEnabled, string(treatmentsRaw),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return product, nil
}

func (r *PostgresInventoryRepository) UpdateProduct(ctx context.Context, product *domain.Product) error {
	if product == nil || product.ID == "" || product.ClientID == "" {
		return fmt.Errorf("client_id and id are required")
	}
	treatmentsRaw, err := json.Marshal(product.TreatmentTypes)
	if err != nil {
		return fmt.Errorf("failed to encode treatment_types: %w", err)
	}
	result, err := r.db.ExecContext(ctx,
		`UPDATE products SET
			name = $3,
			category = $4,
			batch_number = NULLIF($5, ''),
			vendor = NULLIF($6, ''),
			cost_price = $7,
			selling_price = $8,
			current_stock = $9,
			min_stock_level = $10,
			max_stock_level = $11,
			unit = NULLIF($12, ''),
			expiry_date = NULLIF($13, '')::date,
			manufacturing_date = NULLIF($14, '')::date,
			location = NULLIF($15, ''),
			description = NULLIF($16, ''),
			is_active = $17,
			updated_at = NULLIF($18, '')::timestamptz,
			last_used = NULLIF($19, '')::timestamptz,
			auto_deduct_enabled = $20,
			treatment_types = $21::jsonb
		WHERE client_id = $1 AND id = $2`,
		product.ClientID, product.ID, product.Name, product.Category,
		product.BatchNumber, product.Vendor, product.CostPrice,
		product.SellingPrice, product.CurrentStock, product.MinStockLevel,
		product.MaxStockLevel, product.Unit, product.ExpiryDate,
		product.ManufacturingDate, product.Location, product.Description,
		product.IsActive, product.UpdatedAt, product.LastUsed,
		product.AutoDeductEnabled, string(treatmentsRaw),
	)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("product not found: id '%s' %w", product.ID, ErrNotFound)
	}
	return nil
}

func (r *PostgresInventoryRepository) ListLogs(ctx context.Context, clientID string, filter InventoryLogFilters) ([]*domain.InventoryLog, error) {
	if clientID == "" {
		return nil, fmt.Errorf("client_id is required")
	}
	where := []string{"client_id = $1"}
	args := []any{clientID}
	argIdx := 2

	if filter.ProductID != "" {
		where = append(where, fmt.Sprintf("product_id = $%d", argIdx))
		args = append(args, filter.ProductID)
		argIdx++
	}
	if filter.Type != "" {
		where = append(where, fmt.Sprintf("type = $%d", argIdx))
		args = append(args, filter.Type)
		argIdx++
	}

	query := fmt.Sprintf(`
		SELECT
			id, client_id, product_id,
			COALESCE(product_name, '') AS product_name,
			COALESCE(type, '') AS type,
			COALESCE(quantity, 0) AS quantity,
			COALESCE(previous_stock, 0) AS previous_stock,
			COALESCE(new_stock, 0) AS new_stock,
			COALESCE(reason, '') AS reason,
			COALESCE(treatment_id, '') AS treatment_id,
			COALESCE(patient_name, '') AS patient_name,
			COALESCE(performed_by, '') AS performed_by,
			COALESCE(created_at::text, '') AS created_at,
			COALESCE(notes, '') AS notes
		FROM inventory_logs
		WHERE %s
		ORDER BY created_at DESC`, strings.Join(where, " AND "))
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory logs: %w", err)
	}
	defer rows.Close()

	logs := []*domain.InventoryLog{}
	for rows.Next() {
		var l domain.InventoryLog
		if err := rows.Scan(&l.ID, &l.ClientID, &l.ProductID, &l.ProductName,
			&l.Type, &l.Quantity, &l.PreviousStock, &l.NewStock, &l.Reason,
			&l.TreatmentID, &l.PatientName, &l.PerformedBy, &l.CreatedAt, &l.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan inventory log: %w", err)
		}
		logs = append(logs, &l)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate inventory logs: %w", err)
	}
	return logs, nil
}

func (r *PostgresInventoryRepository) CreateLog(ctx context.Context, log *domain.InventoryLog) (*domain.InventoryLog, error) {
	if log == nil || log.ClientID == "" || log.ProductID == "" {
		return nil, fmt.Errorf("client_id and product_id are required")
	}
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO inventory_logs (
			id, client_id, product_id, product_name, type, quantity,
			previous_stock, new_stock, reason, treatment_id, patient_name,
			performed_by, created_at, notes
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''), NULLIF($10, ''),
			NULLIF($11, ''), NULLIF($12, ''), NULLIF($13, '')::timestamptz,
			NULLIF($14, '')
		)`,
		log.ID, log.ClientID, log.ProductID, log.ProductName, log.Type,
		log.Quantity, log.PreviousStock, log.NewStock, log.Reason,
		log.TreatmentID, log.PatientName, log.PerformedBy, log.CreatedAt,
		log.Notes,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create inventory log: %w", err)
	}
	return log, nil
}
