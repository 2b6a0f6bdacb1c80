package handler

import (
	"net/http"
	"time"

	"github.com/phbpx/prits"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
)

type StatsHandler struct {
	store prits.StatsStore
	log   *otelzap.SugaredLogger
	now   func() time.Time
}

func NewStatsHandler(store prits.StatsStore, log *otelzap.SugaredLogger) *StatsHandler {
	return &StatsHandler{
		store: store,
		log:   log,
		now:   time.Now,
	}
}

func (sh StatsHandler) Dashboard(rw http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats, err := sh.store.Dashboard(ctx, sh.now().Add(-prits.RecentWindow))
	if err != nil {
		sh.log.Ctx(ctx).Errorw("Dashboard", "error", err.Error())
		respondErr(ctx, rw, statusFor(err), err)
		return
	}

	respond(ctx, rw, http.StatusOK, stats)
}
