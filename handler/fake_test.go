package handler_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/phbpx/prits"
)

type enquiryStore struct {
	mu    sync.Mutex
	items map[string]prits.Enquiry
}

func newEnquiryStore() *enquiryStore {
	return &enquiryStore{items: make(map[string]prits.Enquiry)}
}

func (s *enquiryStore) Create(_ context.Context, e prits.Enquiry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[e.ID] = e
	return nil
}

func (s *enquiryStore) List(context.Context) ([]prits.Enquiry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]prits.Enquiry, 0, len(s.items))
	for _, e := range s.items {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmittedAt.After(out[j].SubmittedAt) })
	return out, nil
}

func (s *enquiryStore) UpdateStatus(_ context.Context, id string, status prits.Status) (prits.Enquiry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.items[id]
	if !ok {
		return prits.Enquiry{}, prits.ErrEnquiryNotFound
	}
	e.Status = status
	s.items[id] = e
	return e, nil
}

func (s *enquiryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return prits.ErrEnquiryNotFound
	}
	delete(s.items, id)
	return nil
}

func (s *enquiryStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

type serviceEnquiryStore struct {
	mu    sync.Mutex
	items map[string]prits.ServiceEnquiry
}

func newServiceEnquiryStore() *serviceEnquiryStore {
	return &serviceEnquiryStore{items: make(map[string]prits.ServiceEnquiry)}
}

func (s *serviceEnquiryStore) Create(_ context.Context, e prits.ServiceEnquiry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[e.ID] = e
	return nil
}

func (s *serviceEnquiryStore) List(context.Context) ([]prits.ServiceEnquiry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]prits.ServiceEnquiry, 0, len(s.items))
	for _, e := range s.items {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmittedAt.After(out[j].SubmittedAt) })
	return out, nil
}

func (s *serviceEnquiryStore) UpdateStatus(_ context.Context, id string, status prits.Status) (prits.ServiceEnquiry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.items[id]
	if !ok {
		return prits.ServiceEnquiry{}, prits.ErrServiceEnquiryNotFound
	}
	e.Status = status
	s.items[id] = e
	return e, nil
}

func (s *serviceEnquiryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return prits.ErrServiceEnquiryNotFound
	}
	delete(s.items, id)
	return nil
}

type testimonialStore struct {
	mu    sync.Mutex
	items map[string]prits.Testimonial
}

func newTestimonialStore() *testimonialStore {
	return &testimonialStore{items: make(map[string]prits.Testimonial)}
}

func (s *testimonialStore) Create(_ context.Context, t prits.Testimonial) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[t.ID] = t
	return nil
}

func (s *testimonialStore) List(_ context.Context, activeOnly bool) ([]prits.Testimonial, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]prits.Testimonial, 0, len(s.items))
	for _, t := range s.items {
		if activeOnly && !t.IsActive {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *testimonialStore) Update(_ context.Context, t prits.Testimonial) (prits.Testimonial, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.items[t.ID]
	if !ok {
		return prits.Testimonial{}, prits.ErrTestimonialNotFound
	}
	t.CreatedAt = old.CreatedAt
	s.items[t.ID] = t
	return t, nil
}

func (s *testimonialStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return prits.ErrTestimonialNotFound
	}
	delete(s.items, id)
	return nil
}

func (s *testimonialStore) ToggleActive(_ context.Context, id string) (prits.Testimonial, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.items[id]
	if !ok {
		return prits.Testimonial{}, prits.ErrTestimonialNotFound
	}
	t.IsActive = !t.IsActive
	s.items[id] = t
	return t, nil
}

func (s *testimonialStore) get(id string) (prits.Testimonial, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.items[id]
	return t, ok
}

func (s *testimonialStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

type statsStore struct {
	since time.Time
	stats prits.Stats
}

func (s *statsStore) Dashboard(_ context.Context, since time.Time) (prits.Stats, error) {
	s.since = since
	return s.stats, nil
}
