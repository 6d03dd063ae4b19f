package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"products-api/internal/repositories"
	"products-api/pkg/lambda"
)

// DefaultIdempotencyTTL is how long a creation response is replayed
const DefaultIdempotencyTTL = 5 * time.Minute

// IdempotentReplayHeader marks a response served from the idempotency store
const IdempotentReplayHeader = "X-Idempotent-Replay"

// IdempotencyKey derives the deduplication key for a creation body from its
// name, exactly as sent, and price. It returns false when the body cannot be parsed.
func IdempotencyKey(body []byte) (string, bool) {
	var fields struct {
		Name  string  `json:"name"`
		Price float64 `json:"price"`
	}
	if err := json.Unmarshal(body, &fields); err != nil {
		return "", false
	}

	sum := sha256.Sum256([]byte(fields.Name + "|" + strconv.FormatFloat(fields.Price, 'f', -1, 64)))
	return hex.EncodeToString(sum[:]), true
}

// Idempotency replays the stored response of an earlier successful POST with
// the same name and price while it is younger than ttl. Store failures are
// logged and the request proceeds normally.
func Idempotency(store repositories.IdempotencyStore, ttl time.Duration, logger *logrus.Logger) lambda.Middleware {
	if ttl <= 0 {
		ttl = DefaultIdempotencyTTL
	}
	if logger == nil {
		logger = logrus.New()
	}

	return func(next lambda.HandlerFunc) lambda.HandlerFunc {
		return func(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
			if req.Method != http.MethodPost {
				return next(ctx, req)
			}

			key, ok := IdempotencyKey(req.Body)
			if !ok {
				return next(ctx, req)
			}
			log := logger.WithFields(logrus.Fields{
				"request_id":      req.RequestID,
				"idempotency_key": key,
			})

			record, err := store.Get(ctx, key)
			switch {
			case err == nil:
				log.Info("Replaying stored response")
				resp := &lambda.Response{StatusCode: record.StatusCode, Body: record.Body}
				resp.SetHeader(IdempotentReplayHeader, "true")
				return resp, nil
			case !repositories.IsNotFound(err):
				log.WithError(err).Warn("Idempotency lookup failed")
			}

			resp, err := next(ctx, req)
			if err != nil || resp == nil || resp.StatusCode < 200 || resp.StatusCode >= 300 {
				return resp, err
			}

			saveErr := store.Save(ctx, &repositories.IdempotencyRecord{
				Key:        key,
				StatusCode: resp.StatusCode,
				Body:       resp.Body,
				ExpiresAt:  time.Now().Add(ttl),
			})
			if saveErr != nil {
				log.WithError(saveErr).Warn("Failed to store idempotency record")
			}
			return resp, nil
		}
	}
}
