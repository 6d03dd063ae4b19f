// Package lambda holds framework-agnostic request and response types shared by
// the Lambda entrypoint and the local HTTP server.
package lambda

import (
	"context"
	"net/http"
)

// Request represents a generic HTTP request for serverless functions
type Request struct {
	Method      string            `json:"method"`
	Path        string            `json:"path"`
	Headers     map[string]string `json:"headers"`
	QueryParams map[string]string `json:"query_params"`
	Body        []byte            `json:"body"`
	PathParams  map[string]string `json:"path_params"`
	RequestID   string            `json:"request_id"`
}

// PathParam returns the named path parameter, or "" when absent
func (r *Request) PathParam(name string) string {
	if r == nil || r.PathParams == nil {
		return ""
	}
	return r.PathParams[name]
}

// Header returns the named header using a case-insensitive lookup
func (r *Request) Header(name string) string {
	if r == nil {
		return ""
	}
	if v, ok := r.Headers[name]; ok {
		return v
	}
	canonical := http.CanonicalHeaderKey(name)
	for k, v := range r.Headers {
		if http.CanonicalHeaderKey(k) == canonical {
			return v
		}
	}
	return ""
}

// Response represents a generic HTTP response for serverless functions
type Response struct {
	StatusCode int               `json:"status_code"`
	Headers    map[string]string `json:"headers"`
	Body       []byte            `json:"body"`
}

// SetHeader sets a response header, allocating the header map if needed
func (r *Response) SetHeader(name, value string) {
	if r.Headers == nil {
		r.Headers = make(map[string]string)
	}
	r.Headers[name] = value
}

// HandlerFunc is a framework-agnostic handler interface
type HandlerFunc func(ctx context.Context, req *Request) (*Response, error)

// Middleware decorates a HandlerFunc with behaviour that runs around it
type Middleware func(next HandlerFunc) HandlerFunc

// Chain wraps h with the given middleware. The first middleware is the outermost.
func Chain(h HandlerFunc, middleware ...Middleware) HandlerFunc {
	for i := len(middleware) - 1; i >= 0; i-- {
		h = middleware[i](h)
	}
	return h
}
