package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/phbpx/prits"
	"github.com/phbpx/prits/metrics"
	"github.com/phbpx/prits/notify"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
)

// Dispatcher hands accepted submissions to the notification pipeline.
type Dispatcher interface {
	Dispatch(n notify.Notice) <-chan struct{}
}

type EnquiryHandler struct {
	store   prits.EnquiryStore
	notices Dispatcher
	log     *otelzap.SugaredLogger
	now     func() time.Time
}

func NewEnquiryHandler(store prits.EnquiryStore, notices Dispatcher, log *otelzap.SugaredLogger) *EnquiryHandler {
	return &EnquiryHandler{
		store:   store,
		notices: notices,
		log:     log,
		now:     time.Now,
	}
}

func (eh EnquiryHandler) Create(rw http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var ne prits.NewEnquiry
	if err := decode(rw, r, &ne); err != nil {
		eh.log.Ctx(ctx).Errorw("CreateEnquiry", "error", err.Error())
		respondErr(ctx, rw, http.StatusBadRequest, err)
		return
	}

	enquiry, err := prits.CreateEnquiry(ne, eh.now())
	if err != nil {
		respondErr(ctx, rw, statusFor(err), err)
		return
	}

	if err := eh.store.Create(ctx, enquiry); err != nil {
		eh.log.Ctx(ctx).Errorw("CreateEnquiry", "error", err.Error())
		respondErr(ctx, rw, statusFor(err), err)
		return
	}

	metrics.RecordEnquirySubmission(metrics.KindEnquiry)
	if eh.notices != nil {
		eh.notices.Dispatch(notify.EnquiryNotice(enquiry))
	}

	respond(ctx, rw, http.StatusCreated, enquiry)
}

func (eh EnquiryHandler) List(rw http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	enquiries, err := eh.store.List(ctx)
	if err != nil {
		eh.log.Ctx(ctx).Errorw("ListEnquiries", "error", err.Error())
		respondErr(ctx, rw, statusFor(err), err)
		return
	}

	respond(ctx, rw, http.StatusOK, enquiries)
}

type statusChange struct {
	Status prits.Status `json:"status"`
}

func (eh EnquiryHandler) UpdateStatus(rw http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var sc statusChange
	if err := decode(rw, r, &sc); err != nil {
		respondErr(ctx, rw, statusFor(err), err)
		return
	}
	if !sc.Status.Valid() {
		respondErr(ctx, rw, http.StatusBadRequest, prits.ErrInvalidStatus)
		return
	}

	enquiry, err := eh.store.UpdateStatus(ctx, chi.URLParam(r, "id"), sc.Status)
	if err != nil {
		eh.log.Ctx(ctx).Errorw("UpdateEnquiryStatus", "error", err.Error())
		respondErr(ctx, rw, statusFor(err), err)
		return
	}

	respond(ctx, rw, http.StatusOK, enquiry)
}

func (eh EnquiryHandler) Delete(rw http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := eh.store.Delete(ctx, chi.URLParam(r, "id")); err != nil {
		eh.log.Ctx(ctx).Errorw("DeleteEnquiry", "error", err.Error())
		respondErr(ctx, rw, statusFor(err), err)
		return
	}

	respond(ctx, rw, http.StatusOK, success{Success: true})
}
