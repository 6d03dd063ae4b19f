package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"products-api/internal/middleware"
	"products-api/internal/models"
	"products-api/internal/repositories"
	"products-api/internal/repositories/memory"
	"products-api/internal/services"
	"products-api/pkg/lambda"
)

const faultID = "force-error"

type testEnv struct {
	repo    *memory.ProductRepository
	handler *ProductHandler
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestEnv(t *testing.T, mw ...lambda.Middleware) *testEnv {
	t.Helper()
	logger := quietLogger()
	repo := memory.NewProductRepository()
	svc := services.NewProductService(repositories.NewFaultInjectingRepository(repo, faultID), logger)
	return &testEnv{
		repo:    repo,
		handler: NewProductHandler(svc, logger, mw...),
	}
}

func (e *testEnv) do(t *testing.T, method, id, body string) *lambda.Response {
	t.Helper()
	req := &lambda.Request{Method: method, Path: "/products", Body: []byte(body)}
	if id != "" {
		req.Path += "/" + id
		req.PathParams = map[string]string{"id": id}
	}
	resp, err := e.handler.Handle(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, "application/json", resp.Headers["Content-Type"])
	assert.Equal(t, "application/json", resp.Headers[HeaderCustom])
	return resp
}

func createdID(t *testing.T, resp *lambda.Response) string {
	t.Helper()
	var msg MessageResponse
	require.NoError(t, json.Unmarshal(resp.Body, &msg))
	id := strings.TrimSuffix(strings.TrimPrefix(msg.Message, "Product with id = "), " created")
	require.NotEmpty(t, id)
	return id
}

func TestScenarioCreateThenFetch(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "", `{"name":"Widget","price":9.99}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id := createdID(t, resp)

	resp = env.do(t, http.MethodGet, id, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, fmt.Sprintf(`{"id":%q,"name":"Widget","price":9.99}`, id), string(resp.Body))
}

func TestScenarioPutMismatch(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.repo.Put(context.Background(), &models.Product{ID: "X", Name: "Original", Price: 1}))
	writes := env.repo.Calls("put")

	resp := env.do(t, http.MethodPut, "X", `{"id":"Y","name":"Other","price":2}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Product ID in the body does not match path parameter"}`, string(resp.Body))

	assert.Equal(t, writes, env.repo.Calls("put"), "a mismatched PUT must not write")
	got, err := env.repo.GetByID(context.Background(), "X")
	require.NoError(t, err)
	assert.Equal(t, "Original", got.Name)
}

func TestScenarioDeleteMissing(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodDelete, "Z", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Product with id = Z not found"}`, string(resp.Body))
	assert.Zero(t, env.repo.Calls("delete"))
}

func TestScenarioListEmpty(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "[]", string(resp.Body))
}

func TestPutCreatesAndReplaces(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPut, "p1", `{"id":"p1","name":"One","price":1}`)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.JSONEq(t, `{"message":"Product with id = p1 created"}`, string(resp.Body))

	resp = env.do(t, http.MethodPut, "p1", `{"id":"p1","name":"Two","price":2}`)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "p1", "")
	assert.JSONEq(t, `{"id":"p1","name":"Two","price":2}`, string(resp.Body))
}

func TestDeleteExisting(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.repo.Put(context.Background(), &models.Product{ID: "p1", Name: "One"}))

	resp := env.do(t, http.MethodDelete, "p1", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"message":"Product with id = p1 deleted"}`, string(resp.Body))

	resp = env.do(t, http.MethodGet, "p1", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListIsBounded(t *testing.T) {
	env := newTestEnv(t)
	for i := 0; i < 30; i++ {
		require.NoError(t, env.repo.Put(context.Background(), &models.Product{ID: fmt.Sprintf("p%02d", i), Name: "P"}))
	}

	resp := env.do(t, http.MethodGet, "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var products []models.Product
	require.NoError(t, json.Unmarshal(resp.Body, &products))
	assert.Len(t, products, repositories.ListLimit)
}

func TestFaultInjectionAlwaysFails(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.repo.Put(context.Background(), &models.Product{ID: faultID, Name: "Trap"}))

	for i := 0; i < 3; i++ {
		resp := env.do(t, http.MethodGet, faultID, "")
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Contains(t, string(resp.Body), "Internal Server Error :: ")
	}
}

func TestUnroutedRequestsFallBackTo500(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name   string
		method string
		id     string
	}{
		{"patch", http.MethodPatch, "p1"},
		{"head", http.MethodHead, ""},
		{"put without id", http.MethodPut, ""},
		{"delete without id", http.MethodDelete, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := env.do(t, tt.method, tt.id, `{"id":"p1","name":"x","price":1}`)
			assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
			assert.Empty(t, resp.Body)
		})
	}
	assert.Zero(t, env.repo.Len())
}

func TestBadBodies(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(resp.Body), `"error"`)

	resp = env.do(t, http.MethodPut, "p1", `{"id":"p1","name":"x","price":"free"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	assert.Zero(t, env.repo.Len())
}

func TestCreateStoresBodyAsSent(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "", `{"name":"  Widget ","price":9.99}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id := createdID(t, resp)

	resp = env.do(t, http.MethodGet, id, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, fmt.Sprintf(`{"id":%q,"name":"  Widget ","price":9.99}`, id), string(resp.Body))

	resp = env.do(t, http.MethodPost, "", `{"price":5}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id = createdID(t, resp)

	resp = env.do(t, http.MethodGet, id, "")
	assert.JSONEq(t, fmt.Sprintf(`{"id":%q,"name":"","price":5}`, id), string(resp.Body))

	resp = env.do(t, http.MethodPut, "p1", `{"id":"p1","name":"x","price":-1}`)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "p1", "")
	assert.JSONEq(t, `{"id":"p1","name":"x","price":-1}`, string(resp.Body))
}

func TestStrictValidationRejectsInvalidBodies(t *testing.T) {
	repo := memory.NewProductRepository()
	svc := services.NewProductService(repo, quietLogger(), services.WithStrictValidation())
	env := &testEnv{repo: repo, handler: NewProductHandler(svc, quietLogger())}

	resp := env.do(t, http.MethodPost, "", `{"price":5}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(resp.Body), "validation failed")

	resp = env.do(t, http.MethodPut, "p1", `{"id":"p1","name":"x","price":-1}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, http.MethodPut, "p1", `{"id":"p2","price":-1}`)
	assert.JSONEq(t, `{"error":"Product ID in the body does not match path parameter"}`, string(resp.Body))

	assert.Zero(t, repo.Len())
}

func TestReceivedEventLogsRequestID(t *testing.T) {
	logger, hook := test.NewNullLogger()
	svc := services.NewProductService(memory.NewProductRepository(), logger)
	handler := NewProductHandler(svc, logger, middleware.AssignRequestID())

	_, err := handler.Handle(context.Background(), &lambda.Request{
		Method:  http.MethodGet,
		Path:    "/products",
		Headers: map[string]string{middleware.RequestIDHeader: "req-42"},
	})
	require.NoError(t, err)

	var found bool
	for _, entry := range hook.AllEntries() {
		if entry.Message == "Received event" {
			found = true
			assert.Equal(t, "req-42", entry.Data["request_id"])
		}
	}
	assert.True(t, found, "dispatcher should log the received event")
}

func TestStoreFailuresMapTo500(t *testing.T) {
	env := newTestEnv(t)
	env.repo.FailWith(errors.New("throttled"))

	for _, tc := range []struct{ method, id, body string }{
		{http.MethodGet, "", ""},
		{http.MethodGet, "p1", ""},
		{http.MethodPost, "", `{"name":"Widget","price":1}`},
		{http.MethodPut, "p1", `{"id":"p1","name":"Widget","price":1}`},
		{http.MethodDelete, "p1", ""},
	} {
		resp := env.do(t, tc.method, tc.id, tc.body)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode, tc.method)

		var body ErrorResponse
		require.NoError(t, json.Unmarshal(resp.Body, &body))
		assert.True(t, strings.HasPrefix(body.Error, "Internal Server Error :: "))
		assert.Contains(t, body.Error, "throttled")
	}
}

func TestMiddlewareResponsesGetHeaders(t *testing.T) {
	reject := func(next lambda.HandlerFunc) lambda.HandlerFunc {
		return func(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
			return &lambda.Response{StatusCode: http.StatusTooManyRequests}, nil
		}
	}
	env := newTestEnv(t, reject)

	resp := env.do(t, http.MethodGet, "", "")
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestMiddlewareErrorsBecome500(t *testing.T) {
	fail := func(next lambda.HandlerFunc) lambda.HandlerFunc {
		return func(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
			return nil, errors.New("decorator failed")
		}
	}
	env := newTestEnv(t, fail)

	resp := env.do(t, http.MethodGet, "", "")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Internal Server Error :: decorator failed"}`, string(resp.Body))
}

func TestIdempotentCreate(t *testing.T) {
	env := newTestEnv(t,
		middleware.Recover(quietLogger()),
		middleware.AssignRequestID(),
		middleware.Idempotency(memory.NewIdempotencyStore(), 0, quietLogger()),
	)

	first := env.do(t, http.MethodPost, "", `{"name":"Widget","price":9.99}`)
	second := env.do(t, http.MethodPost, "", `{"name":"Widget","price":9.99}`)

	assert.Equal(t, http.StatusCreated, second.StatusCode)
	assert.Equal(t, createdID(t, first), createdID(t, second))
	assert.Equal(t, 1, env.repo.Len())
	assert.NotEmpty(t, second.Headers[middleware.RequestIDHeader])
}
