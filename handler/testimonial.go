package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/phbpx/prits"
	"github.com/phbpx/prits/metrics"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
)

type TestimonialHandler struct {
	store prits.TestimonialStore
	log   *otelzap.SugaredLogger
	now   func() time.Time
}

func NewTestimonialHandler(store prits.TestimonialStore, log *otelzap.SugaredLogger) *TestimonialHandler {
	return &TestimonialHandler{
		store: store,
		log:   log,
		now:   time.Now,
	}
}

// Public lists the testimonials shown on the marketing page.
func (th TestimonialHandler) Public(rw http.ResponseWriter, r *http.Request) {
	th.list(rw, r, true)
}

// All lists every testimonial, inactive ones included, for the back office.
func (th TestimonialHandler) All(rw http.ResponseWriter, r *http.Request) {
	th.list(rw, r, false)
}

func (th TestimonialHandler) list(rw http.ResponseWriter, r *http.Request, activeOnly bool) {
	ctx := r.Context()

	testimonials, err := th.store.List(ctx, activeOnly)
	if err != nil {
		th.log.Ctx(ctx).Errorw("ListTestimonials", "error", err.Error(), "activeOnly", activeOnly)
		respondErr(ctx, rw, statusFor(err), err)
		return
	}

	respond(ctx, rw, http.StatusOK, testimonials)
}

func (th TestimonialHandler) Create(rw http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var nt prits.NewTestimonial
	if err := decode(rw, r, &nt); err != nil {
		respondErr(ctx, rw, statusFor(err), err)
		return
	}

	testimonial, err := prits.CreateTestimonial(nt, th.now())
	if err != nil {
		respondErr(ctx, rw, statusFor(err), err)
		return
	}

	if err := th.store.Create(ctx, testimonial); err != nil {
		th.log.Ctx(ctx).Errorw("CreateTestimonial", "error", err.Error())
		respondErr(ctx, rw, statusFor(err), err)
		return
	}

	metrics.RecordTestimonialMutation("create")
	respond(ctx, rw, http.StatusCreated, testimonial)
}

func (th TestimonialHandler) Update(rw http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var tu prits.TestimonialUpdate
	if err := decode(rw, r, &tu); err != nil {
		respondErr(ctx, rw, statusFor(err), err)
		return
	}

	replacement, err := tu.Testimonial()
	if err != nil {
		respondErr(ctx, rw, statusFor(err), err)
		return
	}

	testimonial, err := th.store.Update(ctx, replacement)
	if err != nil {
		th.log.Ctx(ctx).Errorw("UpdateTestimonial", "error", err.Error(), "id", replacement.ID)
		respondErr(ctx, rw, statusFor(err), err)
		return
	}

	metrics.RecordTestimonialMutation("update")
	respond(ctx, rw, http.StatusOK, testimonial)
}

type testimonialRef struct {
	ID string `json:"id"`
}

func (th TestimonialHandler) Delete(rw http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var ref testimonialRef
	if err := decode(rw, r, &ref); err != nil {
		respondErr(ctx, rw, statusFor(err), err)
		return
	}
	ref.ID = strings.TrimSpace(ref.ID)
	if ref.ID == "" {
		verr := &prits.ValidationError{Fields: map[string]string{"id": "required"}}
		respondErr(ctx, rw, http.StatusBadRequest, verr)
		return
	}

	if err := th.store.Delete(ctx, ref.ID); err != nil {
		th.log.Ctx(ctx).Errorw("DeleteTestimonial", "error", err.Error(), "id", ref.ID)
		respondErr(ctx, rw, statusFor(err), err)
		return
	}

	metrics.RecordTestimonialMutation("delete")
	respond(ctx, rw, http.StatusOK, success{Success: true})
}

func (th TestimonialHandler) Toggle(rw http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	testimonial, err := th.store.ToggleActive(ctx, chi.URLParam(r, "id"))
	if err != nil {
		th.log.Ctx(ctx).Errorw("ToggleTestimonial", "error", err.Error())
		respondErr(ctx, rw, statusFor(err), err)
		return
	}

	metrics.RecordTestimonialMutation("toggle")
	respond(ctx, rw, http.StatusOK, testimonial)
}
