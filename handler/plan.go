package handler

import (
	"errors"
	"net/http"

	"github.com/phbpx/prits/catalog"
)

type PlanHandler struct {
	catalog catalog.Catalog
}

func NewPlanHandler(c catalog.Catalog) *PlanHandler {
	return &PlanHandler{catalog: c}
}

// List returns the whole catalog, or one service line when ?type= is given.
func (ph PlanHandler) List(rw http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	serviceType := r.URL.Query().Get("type")
	if serviceType == "" {
		respond(ctx, rw, http.StatusOK, ph.catalog)
		return
	}

	service, ok := ph.catalog.Service(serviceType)
	if !ok {
		respondErr(ctx, rw, http.StatusNotFound, errors.New("service type not found"))
		return
	}
	respond(ctx, rw, http.StatusOK, service)
}
