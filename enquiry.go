package prits

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Status is the review state of an enquiry. Any state may follow any other;
// only the value set is fixed.
type Status string

const (
	StatusNew       Status = "new"
	StatusContacted Status = "contacted"
	StatusClosed    Status = "closed"
)

// Statuses lists every valid status in workflow order.
var Statuses = []Status{StatusNew, StatusContacted, StatusClosed}

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", ErrInvalidStatus
	}
	return st, nil
}

func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusContacted, StatusClosed:
		return true
	}
	return false
}

func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return ErrInvalidStatus
	}
	st, err := ParseStatus(raw)
	if err != nil {
		return err
	}
	*s = st
	return nil
}

type Enquiry struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Message     string    `json:"message"`
	SubmittedAt time.Time `json:"submittedAt"`
	Status      Status    `json:"status"`
}

// NewEnquiry is a general contact form submission.
type NewEnquiry struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required"`
	Phone   string `json:"phone" validate:"required"`
	Message string `json:"message" validate:"required"`
}

// CreateEnquiry validates ne and builds the record to persist: a fresh id,
// submittedAt set to now and status new.
func CreateEnquiry(ne NewEnquiry, now time.Time) (Enquiry, error) {
	trim(&ne.Name, &ne.Email, &ne.Phone, &ne.Message)
	if err := check(ne); err != nil {
		return Enquiry{}, err
	}

	return Enquiry{
		ID:          uuid.NewString(),
		Name:        ne.Name,
		Email:       ne.Email,
		Phone:       ne.Phone,
		Message:     ne.Message,
		SubmittedAt: now.UTC(),
		Status:      StatusNew,
	}, nil
}

type EnquiryStore interface {
	Create(ctx context.Context, e Enquiry) error
	// List returns every enquiry, most recently submitted first.
	List(ctx context.Context) ([]Enquiry, error)
	UpdateStatus(ctx context.Context, id string, status Status) (Enquiry, error)
	Delete(ctx context.Context, id string) error
}
