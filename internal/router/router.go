// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/handler"
	"github.com/iliyamo/hotel-reservation/internal/middleware"
)

// RegisterRoutes registers routes that require no authentication and no
// domain dependencies.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Used by load balancers and monitoring to verify the service is up.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the staff authentication routes.  Unauthenticated
// operations live under /v1/auth; /v1/me requires a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Refresh rotates the refresh token: the presented token is revoked and
	// a new pair is issued.
	g.POST("/refresh", a.Refresh)
	// Logout takes a refresh token in the body and revokes it; no JWT is
	// required so an expired session can still be terminated.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}

// RegisterPublic registers the guest-facing endpoints: availability
// search, the room type catalog, and reservation checkout/lookup/cancel.
// No accounts exist on this surface; reservations are addressed by
// booking number plus guest email.  The extra middleware (response cache,
// rate limiting) is applied to the read endpoints only, so admissions and
// cancellations always hit the engine directly.
func RegisterPublic(e *echo.Echo, av *handler.AvailabilityHandler, res *handler.ReservationHandler, readMW ...echo.MiddlewareFunc) {
	e.GET("/v1/availability", av.GetAvailability, readMW...)
	e.GET("/v1/room-types", av.ListRoomTypes, readMW...)

	e.POST("/v1/reservations", res.Create)
	e.POST("/v1/reservations/lookup", res.Lookup)
	e.POST("/v1/reservations/cancel", res.Cancel)
}

// RegisterAdmin registers the staff surface under /v1/admin.  Every route
// requires a valid access token carrying the ADMIN role.
func RegisterAdmin(e *echo.Echo, jwtSecret string, rt *handler.RoomTypeHandler, inv *handler.InventoryAdminHandler, bk *handler.BookingAdminHandler) {
	g := e.Group("/v1/admin")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("ADMIN"))

	// Room type catalog management.
	g.POST("/room-types", rt.Create)
	g.GET("/room-types", rt.List)
	g.GET("/room-types/:id", rt.Get)
	g.PUT("/room-types/:id", rt.Update)
	g.DELETE("/room-types/:id", rt.Deactivate)

	// Per-night inventory controls.
	g.GET("/room-types/:id/availability", inv.NightDetail)
	g.PUT("/room-types/:id/overrides", inv.SetOverride)
	g.DELETE("/room-types/:id/overrides", inv.ClearOverride)
	g.POST("/room-types/:id/blocked-dates", inv.SetBlock)
	g.GET("/room-types/:id/blocked-dates", inv.ListBlocks)
	g.DELETE("/blocked-dates/:id", inv.DeleteBlock)

	// Booking lifecycle.
	g.GET("/bookings", bk.List)
	g.POST("/bookings/expire-pending", bk.ExpirePending)
	g.POST("/bookings/:number/confirm", bk.Confirm)
	g.POST("/bookings/:number/complete", bk.Complete)
	g.POST("/bookings/:number/no-show", bk.NoShow)
}
