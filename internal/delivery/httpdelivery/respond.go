package httpdelivery

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc/codes"

	grpcdelivery "github.com/mutugading/marketplace-backend/internal/delivery/grpc"
	"github.com/mutugading/marketplace-backend/internal/domain/shared"
	"github.com/mutugading/marketplace-backend/pkg/logger"
	"github.com/mutugading/marketplace-backend/pkg/response"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// statusFromCode maps gRPC status codes to HTTP status codes.
func statusFromCode(code codes.Code) int {
	switch code {
	case codes.FailedPrecondition:
		return http.StatusPreconditionFailed
	case codes.Unavailable:
		return http.StatusBadGateway
	default:
		return runtime.HTTPStatusFromCode(code)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Warn().Err(err).Msg("Failed to write response")
	}
}

func writeOK(w http.ResponseWriter, message string, data any) {
	writeJSON(w, http.StatusOK, response.With(response.Success(message), data))
}

func writeCreated(w http.ResponseWriter, message string, data any) {
	writeJSON(w, http.StatusCreated, response.With(response.Created(message), data))
}

// writeError wraps err into the BaseResponse format with the HTTP status of
// its kind.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFromCode(grpcdelivery.Code(err))

	var base response.BaseResponse
	var verrs *shared.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]response.ValidationError, 0, len(verrs.Fields))
		for _, f := range verrs.Fields {
			fields = append(fields, response.ValidationError{Field: f.Field, Message: f.Message})
		}
		base = response.ValidationFailed(fields)
	} else {
		base = response.Failure(strconv.Itoa(status), grpcdelivery.ErrorCode(err), grpcdelivery.Message(err))
	}

	l := logger.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		l.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Int("status", status).Msg("Request failed")
	} else {
		l.Debug().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Int("status", status).Msg("Request rejected")
	}

	writeJSON(w, status, response.Envelope{Base: base})
}

// routingErrorHandler renders unmatched routes in the BaseResponse format.
func routingErrorHandler(
	_ context.Context,
	_ *runtime.ServeMux,
	_ runtime.Marshaler,
	w http.ResponseWriter,
	_ *http.Request,
	httpStatus int,
) {
	code := "ROUTE_NOT_FOUND"
	if httpStatus == http.StatusMethodNotAllowed {
		code = "METHOD_NOT_ALLOWED"
	}
	writeJSON(w, httpStatus, response.Envelope{
		Base: response.Failure(strconv.Itoa(httpStatus), code, http.StatusText(httpStatus)),
	})
}

// decodeJSON reads a JSON body into dst. Unknown fields are ignored.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return shared.NewValidationErrors(shared.ValidationError{Field: "body", Message: "request body is required"})
		}
		return shared.NewValidationErrors(shared.ValidationError{Field: "body", Message: "request body is not valid JSON"})
	}
	return nil
}
