// Package middleware provides the decorators wrapped around the product
// dispatcher and the gin middleware used by the local server.
package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"products-api/pkg/lambda"
)

type ctxKey int

const requestIDCtxKey ctxKey = iota

// RequestIDFromContext returns the request ID set by AssignRequestID, if present
func RequestIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDCtxKey).(string)
	return id, ok && id != ""
}

func errorBody(message string) []byte {
	body, _ := json.Marshal(map[string]string{"error": message})
	return body
}

// Recover converts a panic in the wrapped handler into a 500 response
func Recover(logger *logrus.Logger) lambda.Middleware {
	if logger == nil {
		logger = logrus.New()
	}

	return func(next lambda.HandlerFunc) lambda.HandlerFunc {
		return func(ctx context.Context, req *lambda.Request) (resp *lambda.Response, err error) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.WithFields(logrus.Fields{
						"panic":  rec,
						"method": req.Method,
						"path":   req.Path,
					}).Error("Panic recovered")

					resp = &lambda.Response{
						StatusCode: http.StatusInternalServerError,
						Body:       errorBody(fmt.Sprintf("Internal Server Error :: %v", rec)),
					}
					err = nil
				}
			}()

			return next(ctx, req)
		}
	}
}

// AssignRequestID makes sure every request carries an ID. An existing ID from
// the event or the X-Request-ID header is kept; otherwise a UUID is generated.
func AssignRequestID() lambda.Middleware {
	return func(next lambda.HandlerFunc) lambda.HandlerFunc {
		return func(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
			if req.RequestID == "" {
				req.RequestID = req.Header(RequestIDHeader)
			}
			if req.RequestID == "" {
				req.RequestID = uuid.New().String()
			}

			resp, err := next(context.WithValue(ctx, requestIDCtxKey, req.RequestID), req)
			if resp != nil {
				resp.SetHeader(RequestIDHeader, req.RequestID)
			}
			return resp, err
		}
	}
}

// LogRequests logs the outcome and latency of every request
func LogRequests(logger *logrus.Logger) lambda.Middleware {
	if logger == nil {
		logger = logrus.New()
	}

	return func(next lambda.HandlerFunc) lambda.HandlerFunc {
		return func(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
			start := time.Now()
			resp, err := next(ctx, req)

			status := http.StatusInternalServerError
			if resp != nil {
				status = resp.StatusCode
			}

			fields := logrus.Fields{
				"request_id":  req.RequestID,
				"method":      req.Method,
				"path":        req.Path,
				"status_code": status,
				"latency_ms":  float64(time.Since(start).Nanoseconds()) / 1000000,
			}
			if err != nil {
				fields["error"] = err.Error()
			}

			switch {
			case status >= 500:
				logger.WithFields(fields).Error("Request failed")
			case status >= 400:
				logger.WithFields(fields).Warn("Request rejected")
			default:
				logger.WithFields(fields).Info("Request completed")
			}
			return resp, err
		}
	}
}

// RateLimit rejects requests above requestsPerSecond with a 429.
// A non-positive rate disables limiting.
func RateLimit(requestsPerSecond float64, burstSize int, logger *logrus.Logger) lambda.Middleware {
	if requestsPerSecond <= 0 {
		return func(next lambda.HandlerFunc) lambda.HandlerFunc { return next }
	}
	if burstSize < 1 {
		burstSize = 1
	}
	if logger == nil {
		logger = logrus.New()
	}
	limiter := rate.NewLimiter(rate.Limit(requestsPerSecond), burstSize)

	return func(next lambda.HandlerFunc) lambda.HandlerFunc {
		return func(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
			if !limiter.Allow() {
				logger.WithFields(logrus.Fields{
					"request_id": req.RequestID,
					"method":     req.Method,
					"path":       req.Path,
				}).Warn("Rate limit exceeded")

				return &lambda.Response{
					StatusCode: http.StatusTooManyRequests,
					Body:       errorBody("Too many requests"),
				}, nil
			}
			return next(ctx, req)
		}
	}
}
