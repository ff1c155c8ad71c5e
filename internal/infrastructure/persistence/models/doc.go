// Package models contains GORM persistence models that map to database tables.
// Models are separate from the ledger domain types so the domain stays free
// of ORM tags; each model has ToDomain and FromDomain mappers.
//
// Dates are stored in UTC so range queries compare correctly on every driver.
package models
