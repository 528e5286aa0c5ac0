package grpc

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/mutugading/marketplace-backend/internal/infrastructure/tracing"
	"github.com/mutugading/marketplace-backend/pkg/logger"
)

// RequestIDInterceptor adds a unique request ID to each request.
func RequestIDInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		_ *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		var requestID string
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if ids := md.Get("x-request-id"); len(ids) > 0 {
				requestID = ids[0]
			}
		}
		if requestID == "" {
			requestID = uuid.New().String()
		}

		ctx = logger.WithRequestID(ctx, requestID)
		if err := grpc.SetHeader(ctx, metadata.Pairs("x-request-id", requestID)); err != nil {
			log.Debug().Err(err).Msg("Failed to set request ID header")
		}

		return handler(ctx, req)
	}
}

// TimeoutInterceptor enforces request timeout.
func TimeoutInterceptor(timeout time.Duration) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		_ *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		if _, ok := ctx.Deadline(); !ok && timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		return handler(ctx, req)
	}
}

// TracingInterceptor opens a server span per call.
func TracingInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		methodName := info.FullMethod[strings.LastIndex(info.FullMethod, "/")+1:]

		ctx, span := tracing.StartSpan(ctx, methodName,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("rpc.system", "grpc"),
				attribute.String("rpc.method", info.FullMethod),
				attribute.String("request.id", logger.RequestID(ctx)),
			),
		)
		defer span.End()

		resp, err := handler(ctx, req)
		if err != nil {
			tracing.SetError(ctx, err)
			span.SetAttributes(attribute.String("rpc.grpc.status_code", status.Code(err).String()))
		}
		return resp, err
	}
}

// ErrorInterceptor converts domain errors returned by handlers into gRPC statuses.
func ErrorInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		_ *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		resp, err := handler(ctx, req)
		if err != nil {
			return nil, ToStatus(err).Err()
		}
		return resp, nil
	}
}

// LoggingInterceptor creates a unary interceptor for request logging.
func LoggingInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		l := logger.FromContext(ctx)
		if err != nil {
			l.Error().
				Str("method", info.FullMethod).
				Dur("duration", time.Since(start)).
				Err(err).
				Msg("gRPC request failed")
		} else {
			l.Debug().
				Str("method", info.FullMethod).
				Dur("duration", time.Since(start)).
				Msg("gRPC request completed")
		}

		return resp, err
	}
}

// RecoveryInterceptor creates a unary interceptor for panic recovery.
func RecoveryInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (resp interface{}, err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.FromContext(ctx).Error().
					Str("method", info.FullMethod).
					Interface("panic", r).
					Msg("Panic recovered in gRPC handler")

				err = status.Error(codes.Internal, "internal server error")
			}
		}()

		return handler(ctx, req)
	}
}
