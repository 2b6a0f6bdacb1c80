package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/phbpx/prits"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// maxBodyBytes bounds every request body.
const maxBodyBytes = 1 << 20

var errMalformed = errors.New("malformed request body")

func decode(rw http.ResponseWriter, r *http.Request, into interface{}) error {
	rawJson, err := io.ReadAll(http.MaxBytesReader(rw, r.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: %v", errMalformed, err)
	}
	if err := json.Unmarshal(rawJson, into); err != nil {
		if errors.Is(err, prits.ErrInvalidStatus) {
			return err
		}
		return fmt.Errorf("%w: %v", errMalformed, err)
	}
	return nil
}

func respond(ctx context.Context, rw http.ResponseWriter, status int, data interface{}) {
	ctx, span := otel.GetTracerProvider().Tracer("").Start(ctx, "handler.respond")
	span.SetAttributes(attribute.Int("http.status", status))
	defer span.End()

	if status == http.StatusNoContent || data == nil {
		rw.WriteHeader(status)
		return
	}

	rawJson, err := json.Marshal(data)
	if err != nil {
		panic("respond-json-marshal:" + err.Error())
	}

	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)
	rw.Write(rawJson)
}

func respondErr(ctx context.Context, rw http.ResponseWriter, status int, err error) {
	body := map[string]interface{}{
		"code":  http.StatusText(status),
		"error": err.Error(),
	}
	if status == http.StatusInternalServerError {
		body["error"] = "internal server error"
	}

	var verr *prits.ValidationError
	if errors.As(err, &verr) {
		body["fields"] = verr.Fields
	}

	respond(ctx, rw, status, body)
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	var verr *prits.ValidationError
	switch {
	case errors.As(err, &verr),
		errors.Is(err, prits.ErrInvalidStatus),
		errors.Is(err, errMalformed):
		return http.StatusBadRequest
	case errors.Is(err, prits.ErrUnauthorized),
		errors.Is(err, prits.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case prits.IsNotFound(err):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

type success struct {
	Success bool `json:"success"`
}
