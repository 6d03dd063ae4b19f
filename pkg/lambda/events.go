package lambda

import (
	"encoding/base64"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
)

// FromAPIGatewayRequest converts an API Gateway proxy event into a Request
func FromAPIGatewayRequest(event events.APIGatewayProxyRequest) *Request {
	body := []byte(event.Body)
	if event.IsBase64Encoded {
		if decoded, err := base64.StdEncoding.DecodeString(event.Body); err == nil {
			body = decoded
		}
	}

	return &Request{
		Method:      event.HTTPMethod,
		Path:        event.Path,
		Headers:     copyMap(event.Headers),
		QueryParams: copyMap(event.QueryStringParameters),
		PathParams:  copyMap(event.PathParameters),
		Body:        body,
		RequestID:   event.RequestContext.RequestID,
	}
}

// ToAPIGatewayResponse converts a Response into an API Gateway proxy response.
// A nil response becomes a bare 500.
func (r *Response) ToAPIGatewayResponse() events.APIGatewayProxyResponse {
	if r == nil {
		return events.APIGatewayProxyResponse{StatusCode: http.StatusInternalServerError}
	}

	return events.APIGatewayProxyResponse{
		StatusCode: r.StatusCode,
		Headers:    copyMap(r.Headers),
		Body:       string(r.Body),
	}
}

func copyMap(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
