package prits

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	MinRating = 1
	MaxRating = 5
)

type Testimonial struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Company   string    `json:"company"`
	Content   string    `json:"content"`
	Avatar    string    `json:"avatar,omitempty"`
	Rating    *int      `json:"rating,omitempty"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

type NewTestimonial struct {
	Name    string `json:"name" validate:"required"`
	Role    string `json:"role" validate:"required"`
	Company string `json:"company" validate:"required"`
	Content string `json:"content" validate:"required"`
	Avatar  string `json:"avatar" validate:"omitempty,weburl"`
	Rating  *int   `json:"rating"`
}

// CreateTestimonial validates nt and builds an active testimonial.
func CreateTestimonial(nt NewTestimonial, now time.Time) (Testimonial, error) {
	trim(&nt.Name, &nt.Role, &nt.Company, &nt.Content, &nt.Avatar)
	if err := checkTestimonial(nt, nt.Rating); err != nil {
		return Testimonial{}, err
	}

	return Testimonial{
		ID:        uuid.NewString(),
		Name:      nt.Name,
		Role:      nt.Role,
		Company:   nt.Company,
		Content:   nt.Content,
		Avatar:    nt.Avatar,
		Rating:    nt.Rating,
		IsActive:  true,
		CreatedAt: now.UTC(),
	}, nil
}

// TestimonialUpdate replaces every mutable field of the testimonial with the
// given id. Fields left out of the request are cleared, not kept.
type TestimonialUpdate struct {
	ID       string `json:"id" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Role     string `json:"role" validate:"required"`
	Company  string `json:"company" validate:"required"`
	Content  string `json:"content" validate:"required"`
	Avatar   string `json:"avatar" validate:"omitempty,weburl"`
	Rating   *int   `json:"rating"`
	IsActive *bool  `json:"isActive" validate:"required"`
}

// Testimonial validates u and returns the replacement record. CreatedAt is
// left zero; stores keep the original creation time.
func (u TestimonialUpdate) Testimonial() (Testimonial, error) {
	trim(&u.ID, &u.Name, &u.Role, &u.Company, &u.Content, &u.Avatar)
	if err := checkTestimonial(u, u.Rating); err != nil {
		return Testimonial{}, err
	}

	return Testimonial{
		ID:       u.ID,
		Name:     u.Name,
		Role:     u.Role,
		Company:  u.Company,
		Content:  u.Content,
		Avatar:   u.Avatar,
		Rating:   u.Rating,
		IsActive: *u.IsActive,
	}, nil
}

func checkTestimonial(s interface{}, rating *int) error {
	verr := &ValidationError{}
	if err := check(s); err != nil {
		ve, ok := err.(*ValidationError)
		if !ok {
			return err
		}
		verr = ve
	}
	if rating != nil && (*rating < MinRating || *rating > MaxRating) {
		verr.add("rating", "not between 1 and 5")
	}
	return verr.orNil()
}

type TestimonialStore interface {
	Create(ctx context.Context, t Testimonial) error
	// List returns testimonials newest first; activeOnly limits the result to
	// those shown on the public site.
	List(ctx context.Context, activeOnly bool) ([]Testimonial, error)
	Update(ctx context.Context, t Testimonial) (Testimonial, error)
	Delete(ctx context.Context, id string) error
	// ToggleActive flips isActive in a single write and returns the result.
	ToggleActive(ctx context.Context, id string) (Testimonial, error)
}
