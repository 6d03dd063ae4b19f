package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"products-api/internal/repositories"
	"products-api/internal/services"
	"products-api/pkg/lambda"
)

const (
	// HeaderCustom is the marker header attached to every response
	HeaderCustom = "X-Custom-Header"

	contentTypeJSON = "application/json"

	msgIDMismatch    = "Product ID in the body does not match path parameter"
	msgInternalError = "Internal Server Error"
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse represents a confirmation message
type MessageResponse struct {
	Message string `json:"message"`
}

func jsonResponse(status int, v interface{}) *lambda.Response {
	body, err := json.Marshal(v)
	if err != nil {
		return internalError(fmt.Errorf("failed to marshal response: %w", err))
	}
	return &lambda.Response{StatusCode: status, Body: body}
}

func errorResponse(status int, message string) *lambda.Response {
	return jsonResponse(status, ErrorResponse{Error: message})
}

func internalError(err error) *lambda.Response {
	body, _ := json.Marshal(ErrorResponse{Error: fmt.Sprintf("%s :: %s", msgInternalError, err.Error())})
	return &lambda.Response{StatusCode: http.StatusInternalServerError, Body: body}
}

func notFound(id string) *lambda.Response {
	return errorResponse(http.StatusNotFound, fmt.Sprintf("Product with id = %s not found", id))
}

// errorToResponse maps a service error onto the response taxonomy
func errorToResponse(id string, err error) *lambda.Response {
	switch {
	case errors.Is(err, services.ErrIDMismatch):
		return errorResponse(http.StatusBadRequest, msgIDMismatch)
	case errors.Is(err, services.ErrValidation):
		return errorResponse(http.StatusBadRequest, err.Error())
	case repositories.IsNotFound(err):
		return notFound(id)
	default:
		return internalError(err)
	}
}

// withHeaders attaches the fixed response headers
func withHeaders(resp *lambda.Response) *lambda.Response {
	resp.SetHeader("Content-Type", contentTypeJSON)
	resp.SetHeader(HeaderCustom, contentTypeJSON)
	return resp
}
