package logger

import (
	"context"

	"go.uber.org/zap"
)

// contextKey is a type for context keys used by the logger package
type contextKey string

const (
	// LoggerKey is the context key for the logger
	LoggerKey contextKey = "logger"
	// RequestIDKey is the context key for request ID
	RequestIDKey contextKey = "request_id"
	// SiteIDKey is the context key for the platform site ID being worked on
	SiteIDKey contextKey = "site_id"
)

// WithContext returns a new context with the logger attached
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}

// FromContext retrieves the logger from context, returns a no-op logger
// if not found
func FromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(LoggerKey).(*zap.Logger); ok {
		return logger
	}
	return zap.NewNop()
}

// WithRequestID adds request ID to context and returns the enriched logger
func WithRequestID(ctx context.Context, logger *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, RequestIDKey, requestID)
	enriched := logger.With(zap.String("request_id", requestID))
	return WithContext(ctx, enriched), enriched
}

// WithSiteID adds the platform site ID to context and returns the
// enriched logger. Refresh runs use it so every line of a run carries
// the site it belongs to.
func WithSiteID(ctx context.Context, logger *zap.Logger, siteID int64) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, SiteIDKey, siteID)
	enriched := logger.With(zap.Int64("site_id", siteID))
	return WithContext(ctx, enriched), enriched
}

// GetRequestID retrieves request ID from context
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// GetSiteID retrieves the platform site ID from context, 0 if unset
func GetSiteID(ctx context.Context) int64 {
	if siteID, ok := ctx.Value(SiteIDKey).(int64); ok {
		return siteID
	}
	return 0
}

// L returns the context logger enriched with the request ID and site ID
// carried by the context.
// Usage: logger.L(ctx).Info("message", zap.String("key", "value"))
func L(ctx context.Context) *zap.Logger {
	l := FromContext(ctx)
	if requestID := GetRequestID(ctx); requestID != "" {
		l = l.With(zap.String("request_id", requestID))
	}
	if siteID := GetSiteID(ctx); siteID != 0 {
		l = l.With(zap.Int64("site_id", siteID))
	}
	return l
}
