package prits

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrEnquiryNotFound        = errors.New("enquiry not found")
	ErrServiceEnquiryNotFound = errors.New("service enquiry not found")
	ErrTestimonialNotFound    = errors.New("testimonial not found")
	ErrInvalidStatus          = errors.New("status must be one of new, contacted, closed")
	ErrUnauthorized           = errors.New("unauthorized")
	ErrInvalidCredentials     = errors.New("incorrect email or password")
)

// ValidationError reports every rejected field of a submission, keyed by its
// JSON name. Nested fields use dotted names such as "plan.price".
type ValidationError struct {
	Fields map[string]string `json:"fields"`
}

func (v *ValidationError) Error() string {
	names := make([]string, 0, len(v.Fields))
	for name := range v.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s is %s", name, v.Fields[name])
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func (v *ValidationError) add(field, problem string) {
	if v.Fields == nil {
		v.Fields = make(map[string]string)
	}
	v.Fields[field] = problem
}

func (v *ValidationError) orNil() error {
	if len(v.Fields) == 0 {
		return nil
	}
	return v
}

// IsNotFound reports whether err is one of the not-found sentinels.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEnquiryNotFound) ||
		errors.Is(err, ErrServiceEnquiryNotFound) ||
		errors.Is(err, ErrTestimonialNotFound)
}
