package logger

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type contextKey string

const (
	loggerKey    contextKey = "logger"
	requestIDKey contextKey = "request_id"
	bucketIDKey  contextKey = "bucket_id"
)

// WithContext attaches logger to ctx
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the logger stored in ctx, or a no-op logger
func FromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		return logger
	}
	return zap.NewNop()
}

// WithRequestID stores the request ID in ctx
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// GetRequestID returns the request ID stored in ctx, if any
func GetRequestID(ctx context.Context) string {
	requestID, _ := ctx.Value(requestIDKey).(string)
	return requestID
}

// WithBucketID stores the bucket a request operates on in ctx
func WithBucketID(ctx context.Context, bucketID uuid.UUID) context.Context {
	return context.WithValue(ctx, bucketIDKey, bucketID)
}

// GetBucketID returns the bucket stored in ctx, or uuid.Nil
func GetBucketID(ctx context.Context) uuid.UUID {
	bucketID, _ := ctx.Value(bucketIDKey).(uuid.UUID)
	return bucketID
}

// ContextFields returns the correlation fields carried by ctx: trace and
// span IDs of the active span, request ID and bucket ID.
func ContextFields(ctx context.Context) []zap.Field {
	var fields []zap.Field

	if spanCtx := trace.SpanContextFromContext(ctx); spanCtx.IsValid() {
		fields = append(fields,
			zap.String("trace_id", spanCtx.TraceID().String()),
			zap.String("span_id", spanCtx.SpanID().String()),
		)
	}
	if requestID := GetRequestID(ctx); requestID != "" {
		fields = append(fields, zap.String("request_id", requestID))
	}
	if bucketID := GetBucketID(ctx); bucketID != uuid.Nil {
		fields = append(fields, zap.String("bucket_id", bucketID.String()))
	}
	return fields
}

// L returns the logger stored in ctx enriched with ContextFields.
//
//	logger.L(ctx).Info("balance computed", zap.Int64("balance", b))
func L(ctx context.Context) *zap.Logger {
	return Enrich(ctx, FromContext(ctx))
}

// Enrich adds the correlation fields of ctx to logger
func Enrich(ctx context.Context, logger *zap.Logger) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(fields...)
}
