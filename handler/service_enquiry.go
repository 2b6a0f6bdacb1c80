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

type ServiceEnquiryHandler struct {
	store   prits.ServiceEnquiryStore
	notices Dispatcher
	log     *otelzap.SugaredLogger
	now     func() time.Time
}

func NewServiceEnquiryHandler(store prits.ServiceEnquiryStore, notices Dispatcher, log *otelzap.SugaredLogger) *ServiceEnquiryHandler {
	return &ServiceEnquiryHandler{
		store:   store,
		notices: notices,
		log:     log,
		now:     time.Now,
	}
}

func (sh ServiceEnquiryHandler) Create(rw http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var ne prits.NewServiceEnquiry
	if err := decode(rw, r, &ne); err != nil {
		sh.log.Ctx(ctx).Errorw("CreateServiceEnquiry", "error", err.Error())
		respondErr(ctx, rw, http.StatusBadRequest, err)
		return
	}

	se, err := prits.CreateServiceEnquiry(ne, sh.now())
	if err != nil {
		respondErr(ctx, rw, statusFor(err), err)
		return
	}

	if err := sh.store.Create(ctx, se); err != nil {
		sh.log.Ctx(ctx).Errorw("CreateServiceEnquiry", "error", err.Error())
		respondErr(ctx, rw, statusFor(err), err)
		return
	}

	metrics.RecordEnquirySubmission(metrics.KindServiceEnquiry)
	if sh.notices != nil {
		sh.notices.Dispatch(notify.ServiceEnquiryNotice(se))
	}

	respond(ctx, rw, http.StatusCreated, se)
}

func (sh ServiceEnquiryHandler) List(rw http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	enquiries, err := sh.store.List(ctx)
	if err != nil {
		sh.log.Ctx(ctx).Errorw("ListServiceEnquiries", "error", err.Error())
		respondErr(ctx, rw, statusFor(err), err)
		return
	}

	respond(ctx, rw, http.StatusOK, enquiries)
}

func (sh ServiceEnquiryHandler) UpdateStatus(rw http.ResponseWriter, r *http.Request) {
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

	se, err := sh.store.UpdateStatus(ctx, chi.URLParam(r, "id"), sc.Status)
	if err != nil {
		sh.log.Ctx(ctx).Errorw("UpdateServiceEnquiryStatus", "error", err.Error())
		respondErr(ctx, rw, statusFor(err), err)
		return
	}

	respond(ctx, rw, http.StatusOK, se)
}

func (sh ServiceEnquiryHandler) Delete(rw http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := sh.store.Delete(ctx, chi.URLParam(r, "id")); err != nil {
		sh.log.Ctx(ctx).Errorw("DeleteServiceEnquiry", "error", err.Error())
		respondErr(ctx, rw, statusFor(err), err)
		return
	}

	respond(ctx, rw, http.StatusOK, success{Success: true})
}
