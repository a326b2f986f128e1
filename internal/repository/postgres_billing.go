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

// PostgresBillingRepository implements BillingRepository over invoices
// and payments. Invoice line items are stored inline as jsonb.
type PostgresBillingRepository struct {
	db *sql.DB
}

func NewPostgresBillingRepository(db *sql.DB) *PostgresBillingRepository {
	return &PostgresBillingRepository{db: db}
}

var _ BillingRepository = (*PostgresBillingRepository)(nil)

const invoiceColumns = `
	id,
	COALESCE(invoice_number, '') AS invoice_number,
	client_id,
	COALESCE(patient_id, '') AS patient_id,
	COALESCE(patient_name, '') AS patient_name,
	COALESCE(patient_phone, '') AS patient_phone,
	COALESCE(doctor_id, '') AS doctor_id,
	COALESCE(doctor_name, '') AS doctor_name,
	COALESCE(procedures, '[]'::jsonb) AS procedures,
	COALESCE(subtotal, 0) AS subtotal,
	COALESCE(tax_rate, 0) AS tax_rate,
	COALESCE(tax_amount, 0) AS tax_amount,
	COALESCE(discount_rate, 0) AS discount_rate,
	COALESCE(discount_amount, 0) AS discount_amount,
	COALESCE(total_amount, 0) AS total_amount,
	COALESCE(paid_amount, 0) AS paid_amount,
	COALESCE(balance_amount, 0) AS balance_amount,
	COALESCE(payment_mode, '') AS payment_mode,
	COALESCE(status, '') AS status,
	COALESCE(notes, '') AS notes,
	COALESCE(created_at::text, '') AS created_at,
	COALESCE(updated_at::text, '') AS updated_at,
	COALESCE(due_date::text, '') AS due_date,
	COALESCE(paid_at::text, '') AS paid_at,
	COALESCE(refund_amount, 0) AS refund_amount,
	COALESCE(refund_reason, '') AS refund_reason,
	COALESCE(refunded_at::text, '') AS refunded_at`

func scanInvoice(row interface{ Scan(...any) error }) (*domain.Invoice, error) {
	var inv domain.Invoice
	var proceduresRaw []byte
	err := row.Scan(
		&inv.ID, &inv.InvoiceNumber, &inv.ClientID, &inv.PatientID,
		&inv.PatientName, &inv.PatientPhone, &inv.DoctorID, &inv.DoctorName,
		&proceduresRaw, &inv.Subtotal, &inv.TaxRate, &inv.TaxAmount,
		&inv.DiscountRate, &inv.DiscountAmount, &inv.TotalAmount,
		&inv.PaidAmount, &inv.BalanceAmount, &inv.PaymentMode, &inv.Status,
		&inv.Notes, &inv.CreatedAt, &inv.UpdatedAt, &inv.DueDate, &inv.PaidAt,
		&inv.RefundAmount, &inv.RefundReason, &inv.RefundedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(proceduresRaw, &inv.Procedures); err != nil {
		return nil, fmt.Errorf("failed to decode procedures: %w", err)
	}
	return &inv, nil
}

func (r *PostgresBillingRepository) ListInvoices(ctx context.Context, clientID string, filter InvoiceFilters) ([]*domain.Invoice, error) {
	if clientID == "" {
		return nil, fmt.Errorf("client_id is required")
	}
	where := []string{"client_id = $1"}
	args := []any{clientID}
	argIdx := 2

	if filter.Status != "" {
		where = append(where, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, filter.Status)
		argIdx++
	}
	if filter.PatientID != "" {
		where = append(where, fmt.Sprintf("patient_id = $%d", argIdx))
		args = append(args, filter.PatientID)
		argIdx++
	}
	if filter.Search != "" {
		where = append(where, fmt.Sprintf("(invoice_number ILIKE $%d OR patient_name ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+filter.Search+"%")
		argIdx++
	}
	if filter.DateFrom != "" {
		where = append(where, fmt.Sprintf("created_at >= $%d::timestamptz", argIdx))
		args = append(args, filter.DateFrom)
		argIdx++
	}
	if filter.DateTo != "" {
		where = append(where, fmt.Sprintf("created_at <= $%d::timestamptz", argIdx))
		args = append(args, filter.DateTo)
		argIdx++
	}

	query := fmt.Sprintf(`SELECT %s FROM invoices WHERE %s ORDER BY created_at DESC`,
		invoiceColumns, strings.Join(where, " AND "))
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer rows.Close()

	invoices := []*domain.Invoice{}
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		invoices = append(invoices, inv)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate invoices: %w", err)
	}
	return invoices, nil
}

func (r *PostgresBillingRepository) GetInvoice(ctx context.Context, clientID, id string) (*domain.Invoice, error) {
	if clientID == "" || id == "" {
		return nil, fmt.Errorf("client_id and id are required")
	}
	query := fmt.Sprintf(`SELECT %s FROM invoices WHERE client_id = $1 AND id = $2`, invoiceColumns)
	inv, err := scanInvoice(r.db.QueryRowContext(ctx, query, clientID, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("invoice not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}
	return inv, nil
}

func (r *PostgresBillingRepository) CreateInvoice(ctx context.Context, inv *domain.Invoice) (*domain.Invoice, error) {
	if inv == nil || inv.ClientID == "" {
		return nil, fmt.Errorf("client_id is required")
	}
	if inv.ID == "" {
		inv.ID = uuid.NewString()
	}
	if inv.Procedures == nil {
		inv.Procedures = []domain.InvoiceLine{}
	}
	proceduresRaw, err := json.Marshal(inv.Procedures)
	if err != nil {
		return nil, fmt.Errorf("failed to encode procedures: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO invoices (
			id, invoice_number, client_id, patient_id, patient_name,
			patient_phone, doctor_id, doctor_name, procedures, subtotal,
			tax_rate, tax_amount, discount_rate, discount_amount, total_amount,
			paid_amount, balance_amount, payment_mode, status, notes,
			created_at, updated_at, due_date
		) VALUES (
			$1, $2, $3, NULLIF($4, ''), $5, NULLIF($6, ''), NULLIF($7, ''),
			NULLIF($8, ''), $9::jsonb, $10, $11, $12, $13, $14, $15, $16, $17,
			NULLIF($18, ''), $19, NULLIF($20, ''),
			NULLIF($21, '')::timestamptz, NULLIF($22, '')::timestamptz,
			NULLIF($23, '')::date
		)`,
		inv.ID, inv.InvoiceNumber, inv.ClientID, inv.PatientID,
		inv.PatientName, inv.PatientPhone, inv.DoctorID, inv.DoctorName,
		string(proceduresRaw), inv.Subtotal, inv.TaxRate, inv.TaxAmount,
		inv.DiscountRate, inv.DiscountAmount, inv.TotalAmount, inv.PaidAmount,
		inv.BalanceAmount, inv.PaymentMode, inv.Status, inv.Notes,
		inv.CreatedAt, inv.UpdatedAt, inv.DueDate,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}
	return inv, nil
}

func (r *PostgresBillingRepository) UpdateInvoice(ctx context.Context, inv *domain.Invoice) error {
	if inv == nil || inv.ID == "" || inv.ClientID == "" {
		return fmt.Errorf("client_id and id are required")
	}
	proceduresRaw, err := json.Marshal(inv.Procedures)
	if err != nil {
		return fmt.Errorf("failed to encode procedures: %w", err)
	}
	result, err := r.db.ExecContext(ctx,
		`UPDATE invoices SET
			patient_id = NULLIF($3, ''),
			patient_name = $4,
			patient_phone = NULLIF($5, ''),
			doctor_id = NULLIF($6, ''),
			doctor_name = NULLIF($7, ''),
			procedures = $8::jsonb,
			subtotal = $9,
			tax_rate = $10,
			tax_amount = $11,
			discount_rate = $12,
			discount_amount = $13,
			total_amount = $14,
			paid_amount = $15,
			balance_amount = $16,
			payment_mode = NULLIF($17, ''),
			status = $18,
			notes = NULLIF($19, ''),
			updated_at = NULLIF($20, '')::timestamptz,
			due_date = NULLIF($21, '')::date,
			paid_at = NULLIF($22, '')::timestamptz,
			refund_amount = $23,
			refund_reason = NULLIF($24, ''),
			refunded_at = NULLIF($25, '')::timestamptz
		WHERE client_id = $1 AND id = $2`,
		inv.ClientID, inv.ID, inv.PatientID, inv.PatientName,
		inv.PatientPhone, inv.DoctorID, inv.DoctorName, string(proceduresRaw),
		inv.Subtotal, inv.TaxRate, inv.TaxAmount, inv.DiscountRate,
		inv.DiscountAmount, inv.TotalAmount, inv.PaidAmount,
		inv.BalanceAmount, inv.PaymentMode, inv.Status, inv.Notes,
		inv.UpdatedAt, inv.DueDate, inv.PaidAt, inv.RefundAmount,
		inv.RefundReason, inv.RefundedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update invoice: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("invoice not found: id '%s' %w", inv.ID, ErrNotFound)
	}
	return nil
}

func (r *PostgresBillingRepository) CountInvoicesForMonth(ctx context.Context, clientID string, year, month int) (int, error) {
	if clientID == "" {
		return 0, fmt.Errorf("client_id is required")
	}
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM invoices
		 WHERE client_id = $1
		   AND EXTRACT(YEAR FROM created_at) = $2
		   AND EXTRACT(MONTH FROM created_at) = $3`,
		clientID, year, month,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count invoices: %w", err)
	}
	return count, nil
}

func (r *PostgresBillingRepository) ListPayments(ctx context.Context, clientID, invoiceID string) ([]*domain.Payment, error) {
	if clientID == "" {
		return nil, fmt.Errorf("client_id is required")
	}
	where := []string{"client_id = $1"}
	args := []any{clientID}
	if invoiceID != "" {
		where = append(where, "invoice_id = $2")
		args = append(args, invoiceID)
	}
	query := fmt.Sprintf(`
		SELECT
			id, invoice_id, client_id,
			COALESCE(amount, 0) AS amount,
			COALESCE(payment_mode, '') AS payment_mode,
			COALESCE(transaction_id, '') AS transaction_id,
			COALESCE(paid_at::text, '') AS paid_at,
			COALESCE(notes, '') AS notes
		FROM payments
		WHERE %s
		ORDER BY paid_at DESC`, strings.Join(where, " AND "))
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	payments := []*domain.Payment{}
	for rows.Next() {
		var p domain.Payment
		if err := rows.Scan(&p.ID, &p.InvoiceID, &p.ClientID, &p.Amount,
			&p.PaymentMode, &p.TransactionID, &p.PaidAt, &p.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, &p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payments: %w", err)
	}
	return payments, nil
}

func (r *PostgresBillingRepository) CreatePayment(ctx context.Context, p *domain.Payment) (*domain.Payment, error) {
	if p == nil || p.ClientID == "" || p.InvoiceID == "" {
		return nil, fmt.Errorf("client_id and invoice_id are required")
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO payments (id, invoice_id, client_id, amount, payment_mode, transaction_id, paid_at, notes)
		 VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, '')::timestamptz, NULLIF($8, ''))`,
		p.ID, p.InvoiceID, p.ClientID, p.Amount, p.PaymentMode,
		p.TransactionID, p.PaidAt, p.Notes,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}
	return p, nil
}
