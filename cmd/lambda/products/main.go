package main

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	awslambda "github.com/aws/aws-lambda-go/lambda"

	"products-api/internal/config"
	"products-api/pkg/lambda"
	"products-api/pkg/server"
)

var connections *server.ConnectionManager

func init() {
	cfg, err := config.GetOptimizedConfig()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	connections = server.GetConnectionManager()
	logger := config.NewLogger(cfg, config.IsServerlessMode())
	if err := connections.Initialize(context.Background(), cfg, logger); err != nil {
		panic("Failed to initialize container: " + err.Error())
	}
}

func handler(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	container, err := connections.GetContainer(ctx)
	if err != nil {
		return events.APIGatewayProxyResponse{StatusCode: 500}, err
	}

	resp, err := container.ProductHandler.Handle(ctx, lambda.FromAPIGatewayRequest(event))
	if err != nil {
		return events.APIGatewayProxyResponse{StatusCode: 500}, err
	}
	return resp.ToAPIGatewayResponse(), nil
}

func main() {
	awslambda.Start(handler)
}
