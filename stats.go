package prits

import (
	"context"
	"time"
)

// RecentWindow is how far back a submission counts as recent on the dashboard.
const RecentWindow = 7 * 24 * time.Hour

type SubmissionStats struct {
	Total  int `json:"total"`
	New    int `json:"new"`
	Recent int `json:"recent"`
}

type TestimonialStats struct {
	Total  int `json:"total"`
	Active int `json:"active"`
}

type Stats struct {
	Enquiries        SubmissionStats  `json:"enquiries"`
	ServiceEnquiries SubmissionStats  `json:"serviceEnquiries"`
	Testimonials     TestimonialStats `json:"testimonials"`
}

type StatsStore interface {
	// Dashboard counts submissions, treating those submitted after since as recent.
	Dashboard(ctx context.Context, since time.Time) (Stats, error)
}
