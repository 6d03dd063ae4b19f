package handlers

// @title Products API
// @version 1.0
// @description CRUD API for products, served from AWS Lambda behind API Gateway and backed by DynamoDB

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8081
// @BasePath /

// @tag.name products
// @tag.description Product management operations
