package main

// @title Field Inventory Service API
// @version 1.0
// @description Multi-location inventory ledger and picking order service with full observability (logging, tracing, metrics)

// @contact.name API Support

// @license.name MIT

// @host localhost:8082
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @tag.name Items
// @tag.description Catalog and quantity endpoints

// @tag.name Stock
// @tag.description Stock ledger movements

// @tag.name Locations
// @tag.description Location directory and permissions

// @tag.name Picking
// @tag.description Picking order workflow

// @tag.name Audit
// @tag.description Item audit trail

// @tag.name Health
// @tag.description Health check endpoints

// @tag.name Swagger
// @tag.description Swagger documentation endpoints
