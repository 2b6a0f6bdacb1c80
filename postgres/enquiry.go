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

const enquiryColumns = `id, name, email, phone, message, submitted_at, status`

type enquiryRow struct {
	ID          string    `db:"id"`
	Name        string    `db:"name"`
	Email       string    `db:"email"`
	Phone       string    `db:"phone"`
	Message     string    `db:"message"`
	SubmittedAt time.Time `db:"submitted_at"`
	Status      string    `db:"status"`
}

func (r enquiryRow) enquiry() prits.Enquiry {
	return prits.Enquiry{
		ID:          r.ID,
		Name:        r.Name,
		Email:       r.Email,
		Phone:       r.Phone,
		Message:     r.Message,
		SubmittedAt: r.SubmittedAt.UTC(),
		Status:      prits.Status(r.Status),
	}
}

type EnquiryStore struct {
	db *sqlx.DB
}

func NewEnquiryStore(db *sqlx.DB) prits.EnquiryStore {
	return &EnquiryStore{
		db: db,
	}
}

func (s EnquiryStore) Create(ctx context.Context, e prits.Enquiry) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	query := `
	INSERT INTO enquiries (
		id, name, email, phone, message, submitted_at, status
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7
	)`

	_, err = tx.ExecContext(ctx, query,
		e.ID,
		e.Name,
		e.Email,
		e.Phone,
		e.Message,
		e.SubmittedAt,
		string(e.Status),
	)

	if err != nil {
		tx.Rollback()
		if cerr := checkError(err); cerr != nil {
			return cerr
		}
		return fmt.Errorf("inserting enquiry: %w", err)
	}

	return tx.Commit()
}

func (s EnquiryStore) List(ctx context.Context) ([]prits.Enquiry, error) {
	query := `
	SELECT ` + enquiryColumns + `
	FROM enquiries
	ORDER BY submitted_at DESC, id`

	var rows []enquiryRow
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("selecting enquiries: %w", err)
	}

	enquiries := make([]prits.Enquiry, len(rows))
	for i, r := range rows {
		enquiries[i] = r.enquiry()
	}
	return enquiries, nil
}

func (s EnquiryStore) UpdateStatus(ctx context.Context, id string, status prits.Status) (prits.Enquiry, error) {
	if !status.Valid() {
		return prits.Enquiry{}, prits.ErrInvalidStatus
	}
	if !validID(id) {
		return prits.Enquiry{}, prits.ErrEnquiryNotFound
	}

	query := `
	UPDATE enquiries
	SET status = $2
	WHERE id = $1
	RETURNING ` + enquiryColumns

	var row enquiryRow
	if err := s.db.GetContext(ctx, &row, query, id, string(status)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return prits.Enquiry{}, prits.ErrEnquiryNotFound
		}
		return prits.Enquiry{}, fmt.Errorf("updating enquiry status: %w", err)
	}

	return row.enquiry(), nil
}

func (s EnquiryStore) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return prits.ErrEnquiryNotFound
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM enquiries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting enquiry: %w", err)
	}
	return rowsAffectedOrNotFound(res, prits.ErrEnquiryNotFound)
}
