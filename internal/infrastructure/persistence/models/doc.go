// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Key Principles:
// 1. Domain entities should be free of GORM tags and infrastructure concerns
// 2. Persistence models contain all GORM annotations and table mappings
// 3. Mappers convert between domain entities and persistence models
// 4. Repositories use persistence models for database operations
//
// Structure:
// - base.go: BaseModel, AggregateModel and the owner column pair
// - identity.go: users and addresses
// - catalog.go: categories and products
// - cart.go: carts and cart items
// - order.go: orders and order items
//
// The outbox model lives next to the outbox repository in the event package.
// The table layout itself is owned by the SQL files under migrations/.
package models
