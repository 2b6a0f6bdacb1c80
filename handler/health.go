package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
)

// StatusCheck reports whether a dependency is reachable.
type StatusCheck func(ctx context.Context) error

type HealthHandler struct {
	check StatusCheck
	log   *otelzap.SugaredLogger
}

func NewHealthHandler(check StatusCheck, log *otelzap.SugaredLogger) *HealthHandler {
	return &HealthHandler{check: check, log: log}
}

func (hh HealthHandler) Check(rw http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), time.Second)
	defer cancel()

	status, code := "ok", http.StatusOK
	if err := hh.check(ctx); err != nil {
		hh.log.Ctx(ctx).Errorw("Health", "error", err.Error())
		status, code = "db not ready", http.StatusServiceUnavailable
	}

	respond(ctx, rw, code, map[string]string{"status": status})
}
