package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/phbpx/prits"
)

type statsRow struct {
	EnquiriesTotal         int `db:"enquiries_total"`
	EnquiriesNew           int `db:"enquiries_new"`
	EnquiriesRecent        int `db:"enquiries_recent"`
	ServiceEnquiriesTotal  int `db:"service_enquiries_total"`
	ServiceEnquiriesNew    int `db:"service_enquiries_new"`
	ServiceEnquiriesRecent int `db:"service_enquiries_recent"`
	TestimonialsTotal      int `db:"testimonials_total"`
	TestimonialsActive     int `db:"testimonials_active"`
}

type StatsStore struct {
	db *sqlx.DB
}

func NewStatsStore(db *sqlx.DB) prits.StatsStore {
	return &StatsStore{
		db: db,
	}
}

func (s StatsStore) Dashboard(ctx context.Context, since time.Time) (prits.Stats, error) {
	query := `
	SELECT
		(SELECT count(*) FROM enquiries) AS enquiries_total,
		(SELECT count(*) FROM enquiries WHERE status = 'new') AS enquiries_new,
		(SELECT count(*) FROM enquiries WHERE submitted_at > $1) AS enquiries_recent,
		(SELECT count(*) FROM service_enquiries) AS service_enquiries_total,
		(SELECT count(*) FROM service_enquiries WHERE status = 'new') AS service_enquiries_new,
		(SELECT count(*) FROM service_enquiries WHERE submitted_at > $1) AS service_enquiries_recent,
		(SELECT count(*) FROM testimonials) AS testimonials_total,
		(SELECT count(*) FROM testimonials WHERE is_active) AS testimonials_active`

	var row statsRow
	if err := s.db.GetContext(ctx, &row, query, since); err != nil {
		return prits.Stats{}, fmt.Errorf("counting dashboard stats: %w", err)
	}

	return prits.Stats{
		Enquiries: prits.SubmissionStats{
			Total:  row.EnquiriesTotal,
			New:    row.EnquiriesNew,
			Recent: row.EnquiriesRecent,
		},
		ServiceEnquiries: prits.SubmissionStats{
			Total:  row.ServiceEnquiriesTotal,
			New:    row.ServiceEnquiriesNew,
			Recent: row.ServiceEnquiriesRecent,
		},
		Testimonials: prits.TestimonialStats{
			Total:  row.TestimonialsTotal,
			Active: row.TestimonialsActive,
		},
	}, nil
}
