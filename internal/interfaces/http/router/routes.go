package router

import (
	"github.com/medishare/backend/internal/interfaces/http/handler"
)

// Handlers bundles the HTTP handlers mounted under /api/v1
type Handlers struct {
	Health    *handler.HealthHandler
	Clinic    *handler.ClinicHandler
	Medicine  *handler.MedicineHandler
	Inventory *handler.InventoryHandler
	Surplus   *handler.SurplusHandler
	Request   *handler.RequestHandler
	Match     *handler.MatchHandler
	Transfer  *handler.TransferHandler
	Impact    *handler.ImpactHandler
	Summary   *handler.SummaryHandler
}

// APIGroups builds the route groups of the medicine sharing API
func APIGroups(h Handlers) []RouteRegistrar {
	health := NewDomainGroup("health", "/health").
		GET("", h.Health.Health)

	clinics := NewDomainGroup("clinics", "/clinics").
		POST("", h.Clinic.Register).
		GET("", h.Clinic.List).
		GET("/:id", h.Clinic.GetByID).
		GET("/:id/summary", h.Summary.Get)

	medicines := NewDomainGroup("medicines", "/medicines").
		POST("", h.Medicine.Create).
		GET("", h.Medicine.List).
		GET("/:id", h.Medicine.GetByID)

	inventory := NewDomainGroup("inventory", "/inventory").
		POST("", h.Inventory.Add).
		GET("", h.Inventory.List).
		GET("/refresh", h.Inventory.RefreshStatus).
		POST("/refresh", h.Inventory.Refresh).
		GET("/:id", h.Inventory.GetByID)

	surplus := NewDomainGroup("surplus", "/surplus").
		POST("", h.Surplus.Post).
		GET("", h.Surplus.List).
		GET("/:id", h.Surplus.GetByID).
		POST("/:id/cancel", h.Surplus.Cancel)

	requests := NewDomainGroup("requests", "/requests").
		POST("", h.Request.Create).
		GET("", h.Request.List).
		GET("/:id", h.Request.GetByID).
		POST("/:id/cancel", h.Request.Cancel)

	matches := NewDomainGroup("matches", "/matches").
		GET("", h.Match.List)

	transfers := NewDomainGroup("transfers", "/transfers").
		POST("", h.Transfer.Propose).
		GET("", h.Transfer.List).
		GET("/:id", h.Transfer.GetByID).
		POST("/:id/approve", h.Transfer.Approve).
		POST("/:id/reject", h.Transfer.Reject).
		POST("/:id/ship", h.Transfer.Ship).
		POST("/:id/complete", h.Transfer.Complete)

	impact := NewDomainGroup("impact", "/impact").
		GET("", h.Impact.Get)

	return []RouteRegistrar{health, clinics, medicines, inventory, surplus, requests, matches, transfers, impact}
}
