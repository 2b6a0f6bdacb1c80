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

const testimonialColumns = `id, name, role, company, content, avatar, rating, is_active, created_at`

type testimonialRow struct {
	ID        string         `db:"id"`
	Name      string         `db:"name"`
	Role      string         `db:"role"`
	Company   string         `db:"company"`
	Content   string         `db:"content"`
	Avatar    sql.NullString `db:"avatar"`
	Rating    sql.NullInt64  `db:"rating"`
	IsActive  bool           `db:"is_active"`
	CreatedAt time.Time      `db:"created_at"`
}

func (r testimonialRow) testimonial() prits.Testimonial {
	return prits.Testimonial{
		ID:        r.ID,
		Name:      r.Name,
		Role:      r.Role,
		Company:   r.Company,
		Content:   r.Content,
		Avatar:    r.Avatar.String,
		Rating:    intPtr(r.Rating),
		IsActive:  r.IsActive,
		CreatedAt: r.CreatedAt.UTC(),
	}
}

type TestimonialStore struct {
	db *sqlx.DB
}

func NewTestimonialStore(db *sqlx.DB) prits.TestimonialStore {
	return &TestimonialStore{
		db: db,
	}
}

func (s TestimonialStore) Create(ctx context.Context, t prits.Testimonial) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	query := `
	INSERT INTO testimonials (
		id, name, role, company, content, avatar, rating, is_active, created_at
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9
	)`

	_, err = tx.ExecContext(ctx, query,
		t.ID,
		t.Name,
		t.Role,
		t.Company,
		t.Content,
		nullString(t.Avatar),
		nullInt(t.Rating),
		t.IsActive,
		t.CreatedAt,
	)

	if err != nil {
		tx.Rollback()
		return fmt.Errorf("inserting testimonial: %w", err)
	}

	return tx.Commit()
}

func (s TestimonialStore) List(ctx context.Context, activeOnly bool) ([]prits.Testimonial, error) {
	query := `
	SELECT ` + testimonialColumns + `
	FROM testimonials`
	if activeOnly {
		query += `
	WHERE is_active`
	}
	query += `
	ORDER BY created_at DESC, id`

	var rows []testimonialRow
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("selecting testimonials: %w", err)
	}

	testimonials := make([]prits.Testimonial, len(rows))
	for i, r := range rows {
		testimonials[i] = r.testimonial()
	}
	return testimonials, nil
}

func (s TestimonialStore) Update(ctx context.Context, t prits.Testimonial) (prits.Testimonial, error) {
	if !validID(t.ID) {
		return prits.Testimonial{}, prits.ErrTestimonialNotFound
	}

	query := `
	UPDATE testimonials
	SET name = $2, role = $3, company = $4, content = $5, avatar = $6, rating = $7, is_active = $8
	WHERE id = $1
	RETURNING ` + testimonialColumns

	return s.returning(ctx, "updating testimonial", query,
		t.ID,
		t.Name,
		t.Role,
		t.Company,
		t.Content,
		nullString(t.Avatar),
		nullInt(t.Rating),
		t.IsActive,
	)
}

func (s TestimonialStore) ToggleActive(ctx context.Context, id string) (prits.Testimonial, error) {
	if !validID(id) {
		return prits.Testimonial{}, prits.ErrTestimonialNotFound
	}

	query := `
	UPDATE testimonials
	SET is_active = NOT is_active
	WHERE id = $1
	RETURNING ` + testimonialColumns

	return s.returning(ctx, "toggling testimonial", query, id)
}

func (s TestimonialStore) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return prits.ErrTestimonialNotFound
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM testimonials WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting testimonial: %w", err)
	}
	return rowsAffectedOrNotFound(res, prits.ErrTestimonialNotFound)
}

// returning runs a single-row UPDATE ... RETURNING statement.
func (s TestimonialStore) returning(ctx context.Context, op, query string, args ...interface{}) (prits.Testimonial, error) {
	var row testimonialRow
	if err := s.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return prits.Testimonial{}, prits.ErrTestimonialNotFound
		}
		if cerr := checkError(err); cerr != nil {
			return prits.Testimonial{}, cerr
		}
		return prits.Testimonial{}, fmt.Errorf("%s: %w", op, err)
	}
	return row.testimonial(), nil
}
