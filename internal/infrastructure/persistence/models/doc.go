// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer free
// from ORM concerns.
//
// Structure:
// - base.go: shared columns (BaseModel, AggregateModel, OperatedAggregateModel)
// - order.go: orders awaiting checkout or warehouse fulfillment
// - sale.go: committed sales with payments, returns and modifications
// - register.go: cash register sessions
// - operator.go: operators allowed to sign in
// - stock.go: on-hand quantities per SKU
package models
