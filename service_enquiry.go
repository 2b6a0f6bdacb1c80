package prits

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Plan is the pricing plan a service enquiry was made for. Price is display
// text such as "$1699", never a number.
type Plan struct {
	Name  string `json:"name" validate:"required"`
	Price string `json:"price" validate:"required"`
	Type  string `json:"type" validate:"required"`
}

type ServiceEnquiry struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Company     string    `json:"company,omitempty"`
	Message     string    `json:"message"`
	Plan        Plan      `json:"plan"`
	SubmittedAt time.Time `json:"submittedAt"`
	Status      Status    `json:"status"`
}

type NewServiceEnquiry struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required"`
	Phone   string `json:"phone" validate:"required"`
	Company string `json:"company"`
	Message string `json:"message" validate:"required"`
	Plan    Plan   `json:"plan"`
}

// CreateServiceEnquiry validates ne, including every plan field, and builds
// the record to persist.
func CreateServiceEnquiry(ne NewServiceEnquiry, now time.Time) (ServiceEnquiry, error) {
	trim(&ne.Name, &ne.Email, &ne.Phone, &ne.Company, &ne.Message,
		&ne.Plan.Name, &ne.Plan.Price, &ne.Plan.Type)
	if err := check(ne); err != nil {
		return ServiceEnquiry{}, err
	}

	return ServiceEnquiry{
		ID:          uuid.NewString(),
		Name:        ne.Name,
		Email:       ne.Email,
		Phone:       ne.Phone,
		Company:     ne.Company,
		Message:     ne.Message,
		Plan:        ne.Plan,
		SubmittedAt: now.UTC(),
		Status:      StatusNew,
	}, nil
}

type ServiceEnquiryStore interface {
	Create(ctx context.Context, e ServiceEnquiry) error
	// List returns every service enquiry, most recently submitted first.
	List(ctx context.Context) ([]ServiceEnquiry, error)
	UpdateStatus(ctx context.Context, id string, status Status) (ServiceEnquiry, error)
	Delete(ctx context.Context, id string) error
}
