package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/phbpx/prits"
)

const serviceEnquiryColumns = `id, name, email, phone, company, message, plan_name, plan_price, plan_type, submitted_at, status`

type serviceEnquiryRow struct {
	ID          string         `db:"id"`
	Name        string         `db:"name"`
	Email       string         `db:"email"`
	Phone       string         `db:"phone"`
	Company     sql.NullString `db:"company"`
	Message     string         `db:"message"`
	PlanName    string         `db:"plan_name"`
	PlanPrice   string         `db:"plan_price"`
	PlanType    string         `db:"plan_type"`
	SubmittedAt time.Time      `db:"submitted_at"`
	Status      string         `db:"status"`
}

func (r serviceEnquiryRow) serviceEnquiry() prits.ServiceEnquiry {
	return prits.ServiceEnquiry{
		ID:      r.ID,
		Name:    r.Name,
		Email:   r.Email,
		Phone:   r.Phone,
		Company: r.Company.String,
		Message: r.Message,
		Plan: prits.Plan{
			Name:  r.PlanName,
			Price: r.PlanPrice,
			Type:  r.PlanType,
		},
		SubmittedAt: r.SubmittedAt.UTC(),
		Status:      prits.Status(r.Status),
	}
}

type ServiceEnquiryStore struct {
	db *sqlx.DB
}

func NewServiceEnquiryStore(db *sqlx.DB) prits.ServiceEnquiryStore {
	return &ServiceEnquiryStore{
		db: db,
	}
}

func (s ServiceEnquiryStore) Create(ctx context.Context, e prits.ServiceEnquiry) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	query := `
	INSERT INTO service_enquiries (
		id, name, email, phone, company, message, plan_name, plan_price, plan_type, submitted_at, status
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
	)`

	_, err = tx.ExecContext(ctx, query,
		e.ID,
		e.Name,
		e.Email,
		e.Phone,
		nullString(e.Company),
		e.Message,
		e.Plan.Name,
		e.Plan.Price,
		e.Plan.Type,
		e.SubmittedAt,
		string(e.Status),
	)

	if err != nil {
		tx.Rollback()
		if cerr := checkError(err); cerr != nil {
			return cerr
		}
		return fmt.Errorf("inserting service enquiry: %w", err)
	}

	return tx.Commit()
}

func (s ServiceEnquiryStore) List(ctx context.Context) ([]prits.ServiceEnquiry, error) {
	query := `
	SELECT ` + serviceEnquiryColumns + `
	FROM service_enquiries
	ORDER BY submitted_at DESC, id`

	var rows []serviceEnquiryRow
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("selecting service enquiries: %w", err)
	}

	enquiries := make([]prits.ServiceEnquiry, len(rows))
	for i, r := range rows {
		enquiries[i] = r.serviceEnquiry()
	}
	return enquiries, nil
}

func (s ServiceEnquiryStore) UpdateStatus(ctx context.Context, id string, status prits.Status) (prits.ServiceEnquiry, error) {
	if !status.Valid() {
		return prits.ServiceEnquiry{}, prits.ErrInvalidStatus
	}
	if !validID(id) {
		return prits.ServiceEnquiry{}, prits.ErrServiceEnquiryNotFound
	}

	query := `
	UPDATE service_enquiries
	SET status = $2
	WHERE id = $1
	RETURNING ` + serviceEnquiryColumns

	var row serviceEnquiryRow
	if err := s.db.GetContext(ctx, &row, query, id, string(status)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return prits.ServiceEnquiry{}, prits.ErrServiceEnquiryNotFound
		}
		return prits.ServiceEnquiry{}, fmt.Errorf("updating service enquiry status: %w", err)
	}

	return row.serviceEnquiry(), nil
}

func (s ServiceEnquiryStore) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return prits.ErrServiceEnquiryNotFound
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM service_enquiries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting service enquiry: %w", err)
	}
	return rowsAffectedOrNotFound(res, prits.ErrServiceEnquiryNotFound)
}
