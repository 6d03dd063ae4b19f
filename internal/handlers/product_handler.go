package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"products-api/internal/middleware"
	"products-api/internal/models"
	"products-api/internal/services"
	"products-api/pkg/lambda"
)

// ProductHandler dispatches product requests to the product service
type ProductHandler struct {
	productService services.ProductService
	logger         *logrus.Logger
	handle         lambda.HandlerFunc
}

// NewProductHandler creates a new product handler. The middleware wraps the
// core dispatch, outermost first; response headers are attached after all of it.
func NewProductHandler(productService services.ProductService, logger *logrus.Logger, mw ...lambda.Middleware) *ProductHandler {
	if logger == nil {
		logger = logrus.New()
	}
	h := &ProductHandler{
		productService: productService,
		logger:         logger,
	}
	h.handle = lambda.Chain(h.dispatch, mw...)
	return h
}

// Handle serves one request. It never returns an error: every failure is
// converted into a complete response.
func (h *ProductHandler) Handle(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	resp, err := h.handle(ctx, req)
	if err != nil {
		h.logger.WithError(err).Error("Request handling failed")
		resp = internalError(err)
	}
	if resp == nil {
		resp = &lambda.Response{StatusCode: http.StatusInternalServerError}
	}
	return withHeaders(resp), nil
}

func (h *ProductHandler) dispatch(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	id := req.PathParam("id")

	requestID := req.RequestID
	if fromCtx, ok := middleware.RequestIDFromContext(ctx); ok {
		requestID = fromCtx
	}

	h.logger.WithFields(logrus.Fields{
		"request_id":  requestID,
		"method":      req.Method,
		"path":        req.Path,
		"path_params": req.PathParams,
	}).Info("Received event")

	switch {
	case req.Method == http.MethodPut && id != "":
		return h.HandleReplace(ctx, req)
	case req.Method == http.MethodPost:
		return h.HandleCreate(ctx, req)
	case req.Method == http.MethodGet && id == "":
		return h.HandleList(ctx, req)
	case req.Method == http.MethodGet:
		return h.HandleGet(ctx, req)
	case req.Method == http.MethodDelete && id != "":
		return h.HandleDelete(ctx, req)
	default:
		h.logger.WithFields(logrus.Fields{
			"method": req.Method,
			"has_id": id != "",
		}).Warn("No route for request")
		return &lambda.Response{StatusCode: http.StatusInternalServerError}, nil
	}
}

// @Summary Replace a product
// @Description Create or replace the product stored under id. The body id must match the path.
// @Tags products
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param product body models.Product true "Product data"
// @Success 201 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /products/{id} [put]
func (h *ProductHandler) HandleReplace(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	id := req.PathParam("id")

	product, resp := decodeProduct(req)
	if resp != nil {
		return resp, nil
	}

	if err := h.productService.ReplaceProduct(ctx, id, product); err != nil {
		return errorToResponse(id, err), nil
	}

	return jsonResponse(http.StatusCreated, MessageResponse{
		Message: fmt.Sprintf("Product with id = %s created", id),
	}), nil
}

// @Summary Create a product
// @Description Create a product under a newly generated id. Any id in the body is ignored.
// @Tags products
// @Accept json
// @Produce json
// @Param product body models.Product true "Product data"
// @Success 201 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /products [post]
func (h *ProductHandler) HandleCreate(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	product, resp := decodeProduct(req)
	if resp != nil {
		return resp, nil
	}

	id, err := h.productService.CreateProduct(ctx, product)
	if err != nil {
		return errorToResponse("", err), nil
	}

	return jsonResponse(http.StatusCreated, MessageResponse{
		Message: fmt.Sprintf("Product with id = %s created", id),
	}), nil
}

// @Summary List products
// @Description Returns up to 20 products in store order
// @Tags products
// @Produce json
// @Success 200 {array} models.Product
// @Failure 500 {object} ErrorResponse
// @Router /products [get]
func (h *ProductHandler) HandleList(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	products, err := h.productService.ListProducts(ctx)
	if err != nil {
		return internalError(err), nil
	}

	return jsonResponse(http.StatusOK, products), nil
}

// @Summary Get a product
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} models.Product
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /products/{id} [get]
func (h *ProductHandler) HandleGet(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	id := req.PathParam("id")

	product, err := h.productService.GetProduct(ctx, id)
	if err != nil {
		return errorToResponse(id, err), nil
	}

	return jsonResponse(http.StatusOK, product), nil
}

// @Summary Delete a product
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /products/{id} [delete]
func (h *ProductHandler) HandleDelete(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	id := req.PathParam("id")

	if err := h.productService.DeleteProduct(ctx, id); err != nil {
		return errorToResponse(id, err), nil
	}

	return jsonResponse(http.StatusOK, MessageResponse{
		Message: fmt.Sprintf("Product with id = %s deleted", id),
	}), nil
}

// decodeProduct parses the request body. A non-nil response means the body was rejected.
func decodeProduct(req *lambda.Request) (*models.Product, *lambda.Response) {
	var product models.Product
	if err := json.Unmarshal(req.Body, &product); err != nil {
		return nil, errorResponse(http.StatusBadRequest, fmt.Sprintf("Invalid request body :: %s", err.Error()))
	}
	return &product, nil
}
