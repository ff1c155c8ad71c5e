package router

import (
	"github.com/bucketledger/backend/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
)

// Handlers bundles every HTTP handler the API mounts
type Handlers struct {
	Buckets       *handler.BucketHandler
	Transactions  *handler.TransactionHandler
	Corrections   *handler.CorrectionHandler
	Subscriptions *handler.SubscriptionHandler
	Miles         *handler.MilesHandler
	Categories    *handler.CategoryHandler
	Balances      *handler.BalanceHandler
	Stream        *handler.StreamHandler
	Health        *handler.HealthHandler
}

// LedgerGroups declares the /api/<version> resource groups
func LedgerGroups(h Handlers) []*DomainGroup {
	buckets := NewDomainGroup("buckets", "/buckets").
		GET("", h.Buckets.List).
		GET("/archived", h.Buckets.ListArchived).
		POST("", h.Buckets.Create).
		GET("/:id", h.Buckets.GetByID).
		PUT("/:id", h.Buckets.Update).
		POST("/:id/archive", h.Buckets.Archive).
		POST("/:id/restore", h.Buckets.Restore).
		GET("/:id/balance", h.Balances.BalanceAt).
		GET("/:id/balance/series", h.Balances.Series).
		GET("/:id/transactions", h.Transactions.ListForBucket).
		GET("/:id/corrections", h.Corrections.ListForBucket).
		GET("/:id/subscriptions", h.Subscriptions.ListForBucket)

	transactions := NewDomainGroup("transactions", "/transactions").
		POST("", h.Transactions.Create).
		POST("/transfer", h.Transactions.Transfer).
		GET("/:id", h.Transactions.GetByID).
		PUT("/:id", h.Transactions.Update).
		POST("/:id/archive", h.Transactions.Archive).
		POST("/:id/restore", h.Transactions.Restore)

	corrections := NewDomainGroup("corrections", "/corrections").
		GET("", h.Corrections.List).
		POST("", h.Corrections.Create).
		GET("/:id", h.Corrections.GetByID).
		PUT("/:id", h.Corrections.Update).
		DELETE("/:id", h.Corrections.Delete)

	subscriptions := NewDomainGroup("subscriptions", "/subscriptions").
		GET("", h.Subscriptions.List).
		GET("/archived", h.Subscriptions.ListArchived).
		POST("", h.Subscriptions.Create).
		GET("/:id", h.Subscriptions.GetByID).
		PUT("/:id", h.Subscriptions.Update).
		POST("/:id/archive", h.Subscriptions.Archive).
		POST("/:id/restore", h.Subscriptions.Restore)

	miles := NewDomainGroup("miles", "/miles").
		GET("", h.Miles.List).
		GET("/archived", h.Miles.ListArchived).
		POST("", h.Miles.Create).
		PUT("/:id", h.Miles.Update).
		POST("/:id/archive", h.Miles.Archive).
		POST("/:id/restore", h.Miles.Restore)

	categories := NewDomainGroup("categories", "/categories").
		GET("", h.Categories.List)
	categories.Group("types", "/types").
		POST("", h.Categories.CreateType).
		PUT("/:id", h.Categories.RenameType)
	categories.Group("subtypes", "/subtypes").
		POST("", h.Categories.CreateSubtype).
		PUT("/:id", h.Categories.UpdateSubtype)

	stream := NewDomainGroup("stream", "/stream").
		GET("", h.Stream.Stream)

	return []*DomainGroup{buckets, transactions, corrections, subscriptions, miles, categories, stream}
}

// Mount registers the ledger API on engine: /health at the root and every
// resource group under the versioned prefix.
func Mount(engine *gin.Engine, h Handlers, opts ...RouterOption) *Router {
	engine.GET("/health", h.Health.Health)

	r := NewRouter(engine, opts...)
	for _, group := range LedgerGroups(h) {
		r.Register(group)
	}
	r.Setup()
	return r
}
