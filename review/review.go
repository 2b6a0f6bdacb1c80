package review

import (
	"context"
	"fmt"
	"time"

	"github.com/phbpx/prits"
)

// EnquiryBackend persists contact enquiry moderation. *client.Client
// implements it.
type EnquiryBackend interface {
	Enquiries(ctx context.Context) ([]prits.Enquiry, error)
	SetEnquiryStatus(ctx context.Context, id string, status prits.Status) (prits.Enquiry, error)
	DeleteEnquiry(ctx context.Context, id string) error
}

type ServiceEnquiryBackend interface {
	ServiceEnquiries(ctx context.Context) ([]prits.ServiceEnquiry, error)
	SetServiceEnquiryStatus(ctx context.Context, id string, status prits.Status) (prits.ServiceEnquiry, error)
	DeleteServiceEnquiry(ctx context.Context, id string) error
}

type TestimonialBackend interface {
	Testimonials(ctx context.Context) ([]prits.Testimonial, error)
	CreateTestimonial(ctx context.Context, nt prits.NewTestimonial) (prits.Testimonial, error)
	UpdateTestimonial(ctx context.Context, tu prits.TestimonialUpdate) (prits.Testimonial, error)
	ToggleTestimonial(ctx context.Context, id string) (prits.Testimonial, error)
	DeleteTestimonial(ctx context.Context, id string) error
}

// EnquiryBoard is the admin's working list of contact enquiries.
type EnquiryBoard struct {
	backend EnquiryBackend
	board   board[prits.Enquiry]
}

func NewEnquiryBoard(backend EnquiryBackend) *EnquiryBoard {
	return &EnquiryBoard{
		backend: backend,
		board: board[prits.Enquiry]{
			key:      func(e prits.Enquiry) string { return e.ID },
			notFound: prits.ErrEnquiryNotFound,
		},
	}
}

// Load replaces the working list with the server's, newest first.
func (eb *EnquiryBoard) Load(ctx context.Context) error {
	items, err := eb.backend.Enquiries(ctx)
	if err != nil {
		return fmt.Errorf("loading enquiries: %w", err)
	}
	eb.board.load(items)
	return nil
}

func (eb *EnquiryBoard) Items() []prits.Enquiry {
	return eb.board.snapshot()
}

// Select marks the enquiry shown in detail. An empty id clears the selection.
// Nothing is sent to the server.
func (eb *EnquiryBoard) Select(id string) error {
	return eb.board.selectID(id)
}

func (eb *EnquiryBoard) Selected() (prits.Enquiry, bool) {
	return eb.board.current()
}

// SetStatus moves the enquiry to status. Any status may follow any other.
func (eb *EnquiryBoard) SetStatus(ctx context.Context, id string, status prits.Status) (prits.Enquiry, error) {
	if !status.Valid() {
		return prits.Enquiry{}, prits.ErrInvalidStatus
	}
	return eb.board.mutate(ctx, id,
		func(e prits.Enquiry) prits.Enquiry {
			e.Status = status
			return e
		},
		func(ctx context.Context) (prits.Enquiry, error) {
			return eb.backend.SetEnquiryStatus(ctx, id, status)
		},
	)
}

// Delete removes the enquiry for good. There is no undo.
func (eb *EnquiryBoard) Delete(ctx context.Context, id string) error {
	return eb.board.remove(ctx, id, func(ctx context.Context) error {
		return eb.backend.DeleteEnquiry(ctx, id)
	})
}

// ServiceEnquiryBoard is the admin's working list of service enquiries.
type ServiceEnquiryBoard struct {
	backend ServiceEnquiryBackend
	board   board[prits.ServiceEnquiry]
}

func NewServiceEnquiryBoard(backend ServiceEnquiryBackend) *ServiceEnquiryBoard {
	return &ServiceEnquiryBoard{
		backend: backend,
		board: board[prits.ServiceEnquiry]{
			key:      func(e prits.ServiceEnquiry) string { return e.ID },
			notFound: prits.ErrServiceEnquiryNotFound,
		},
	}
}

func (sb *ServiceEnquiryBoard) Load(ctx context.Context) error {
	items, err := sb.backend.ServiceEnquiries(ctx)
	if err != nil {
		return fmt.Errorf("loading service enquiries: %w", err)
	}
	sb.board.load(items)
	return nil
}

func (sb *ServiceEnquiryBoard) Items() []prits.ServiceEnquiry {
	return sb.board.snapshot()
}

func (sb *ServiceEnquiryBoard) Select(id string) error {
	return sb.board.selectID(id)
}

func (sb *ServiceEnquiryBoard) Selected() (prits.ServiceEnquiry, bool) {
	return sb.board.current()
}

func (sb *ServiceEnquiryBoard) SetStatus(ctx context.Context, id string, status prits.Status) (prits.ServiceEnquiry, error) {
	if !status.Valid() {
		return prits.ServiceEnquiry{}, prits.ErrInvalidStatus
	}
	return sb.board.mutate(ctx, id,
		func(e prits.ServiceEnquiry) prits.ServiceEnquiry {
			e.Status = status
			return e
		},
		func(ctx context.Context) (prits.ServiceEnquiry, error) {
			return sb.backend.SetServiceEnquiryStatus(ctx, id, status)
		},
	)
}

func (sb *ServiceEnquiryBoard) Delete(ctx context.Context, id string) error {
	return sb.board.remove(ctx, id, func(ctx context.Context) error {
		return sb.backend.DeleteServiceEnquiry(ctx, id)
	})
}

// TestimonialBoard is the admin's list of testimonials, inactive included.
type TestimonialBoard struct {
	backend TestimonialBackend
	board   board[prits.Testimonial]
}

func NewTestimonialBoard(backend TestimonialBackend) *TestimonialBoard {
	return &TestimonialBoard{
		backend: backend,
		board: board[prits.Testimonial]{
			key:      func(t prits.Testimonial) string { return t.ID },
			notFound: prits.ErrTestimonialNotFound,
		},
	}
}

func (tb *TestimonialBoard) Load(ctx context.Context) error {
	items, err := tb.backend.Testimonials(ctx)
	if err != nil {
		return fmt.Errorf("loading testimonials: %w", err)
	}
	tb.board.load(items)
	return nil
}

func (tb *TestimonialBoard) Items() []prits.Testimonial {
	return tb.board.snapshot()
}

func (tb *TestimonialBoard) Select(id string) error {
	return tb.board.selectID(id)
}

func (tb *TestimonialBoard) Selected() (prits.Testimonial, bool) {
	return tb.board.current()
}

// Create submits a new testimonial. The server assigns its id, so the record
// joins the list only once it is saved, as the newest entry.
func (tb *TestimonialBoard) Create(ctx context.Context, nt prits.NewTestimonial) (prits.Testimonial, error) {
	if _, err := prits.CreateTestimonial(nt, time.Now()); err != nil {
		return prits.Testimonial{}, err
	}

	saved, err := tb.backend.CreateTestimonial(ctx, nt)
	if err != nil {
		return prits.Testimonial{}, err
	}
	tb.board.prepend(saved)
	return saved, nil
}

// Update replaces every editable field of the testimonial. The edit shows
// at once and is undone when the server rejects it.
func (tb *TestimonialBoard) Update(ctx context.Context, tu prits.TestimonialUpdate) (prits.Testimonial, error) {
	replacement, err := tu.Testimonial()
	if err != nil {
		return prits.Testimonial{}, err
	}

	return tb.board.mutate(ctx, replacement.ID,
		func(t prits.Testimonial) prits.Testimonial {
			replacement.CreatedAt = t.CreatedAt
			return replacement
		},
		func(ctx context.Context) (prits.Testimonial, error) {
			return tb.backend.UpdateTestimonial(ctx, tu)
		},
	)
}

// Toggle flips whether the testimonial is shown on the public site.
func (tb *TestimonialBoard) Toggle(ctx context.Context, id string) (prits.Testimonial, error) {
	return tb.board.mutate(ctx, id,
		func(t prits.Testimonial) prits.Testimonial {
			t.IsActive = !t.IsActive
			return t
		},
		func(ctx context.Context) (prits.Testimonial, error) {
			return tb.backend.ToggleTestimonial(ctx, id)
		},
	)
}

func (tb *TestimonialBoard) Delete(ctx context.Context, id string) error {
	return tb.board.remove(ctx, id, func(ctx context.Context) error {
		return tb.backend.DeleteTestimonial(ctx, id)
	})
}
