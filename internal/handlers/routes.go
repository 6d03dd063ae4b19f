package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"products-api/internal/middleware"
	"products-api/pkg/lambda"
)

// RouterConfig holds configuration for setting up routes
type RouterConfig struct {
	ProductHandler *ProductHandler
	ServiceName    string
	Version        string
}

// SetupRoutes configures the local HTTP routes. Every product route goes
// through the same dispatcher the Lambda entrypoint uses.
func SetupRoutes(router *gin.Engine, config *RouterConfig) {
	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": config.ServiceName,
			"version": config.Version,
		})
	})

	dispatch := GinHandler(config.ProductHandler.Handle)
	router.Any("/products", dispatch)
	router.Any("/products/:id", dispatch)
}

// GinHandler adapts a lambda.HandlerFunc to gin
func GinHandler(h lambda.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, err := requestFromGin(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}

		resp, err := h(c.Request.Context(), req)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
			return
		}

		for k, v := range resp.Headers {
			c.Header(k, v)
		}
		c.Status(resp.StatusCode)
		if len(resp.Body) > 0 {
			_, _ = c.Writer.Write(resp.Body)
		}
	}
}

func requestFromGin(c *gin.Context) (*lambda.Request, error) {
	var body []byte
	if c.Request.Body != nil {
		b, err := io.ReadAll(c.Request.Body)
		if err != nil {
			return nil, err
		}
		body = b
	}

	headers := make(map[string]string, len(c.Request.Header))
	for k := range c.Request.Header {
		headers[k] = c.Request.Header.Get(k)
	}

	query := make(map[string]string)
	for k, v := range c.Request.URL.Query() {
		if len(v) > 0 {
			query[k] = v[0]
		}
	}

	params := make(map[string]string, len(c.Params))
	for _, p := range c.Params {
		params[p.Key] = p.Value
	}

	return &lambda.Request{
		Method:      c.Request.Method,
		Path:        c.Request.URL.Path,
		Headers:     headers,
		QueryParams: query,
		Body:        body,
		PathParams:  params,
		RequestID:   c.GetString(middleware.RequestIDKey),
	}, nil
}
