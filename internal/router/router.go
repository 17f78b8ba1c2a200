// Package router wires HTTP routes to their handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/ZharfanFw/kailku-mobile-sub000/internal/handler"
	"github.com/ZharfanFw/kailku-mobile-sub000/internal/middleware"
)

// RegisterRoutes registers routes that require no authentication or
// dependencies.  Currently only the health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication endpoints under /v1/auth plus
// the protected profile endpoints under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, p *handler.ProfileHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// /refresh rotates the refresh token; /refresh-access reuses it and only
	// issues a new access token.
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	// Single-session logout via refresh_token in the body.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole("ADMIN", "CUSTOMER"))
	auth.GET("/me", p.Me)
	auth.PATCH("/me", p.Update)
	auth.POST("/logout", a.Logout) // all-session logout for the authenticated user
}

// RegisterBooking registers the seat availability check and the booking
// endpoints.  The availability check is public so clients can preview seats
// before logging in; everything that writes requires a session.
func RegisterBooking(e *echo.Echo, b *handler.BookingHandler, jwtSecret string) {
	e.GET("/bookings/check-seats", b.CheckSeats)

	g := e.Group("/bookings")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("ADMIN", "CUSTOMER"))
	g.POST("", b.Create)
	g.GET("/my", b.ListMine)

	e.GET("/orders/:id", b.GetOrder,
		middleware.JWTAuth(jwtSecret), middleware.RequireRole("ADMIN", "CUSTOMER"))
}

// RegisterPayment registers the payment lifecycle endpoints.  All require a
// session; ownership checks happen in the handlers.
func RegisterPayment(e *echo.Echo, p *handler.PaymentHandler, jwtSecret string) {
	g := e.Group("/payment")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("ADMIN", "CUSTOMER"))
	g.POST("/create", p.Create)
	g.GET("/:id", p.Get)
	g.POST("/:id/pay", p.Confirm)
}

// RegisterPublic registers the unauthenticated catalog endpoints, wrapped in
// the response cache when one is configured.  Posting a review still
// requires a session.
func RegisterPublic(e *echo.Echo, b *handler.BrowseHandler, jwtSecret string, cache echo.MiddlewareFunc) {
	mws := []echo.MiddlewareFunc{}
	if cache != nil {
		mws = append(mws, cache)
	}
	e.GET("/v1/tempat", b.ListTempat, mws...)
	e.GET("/v1/search/tempat", b.SearchTempat, mws...)
	e.GET("/v1/tempat/:id", b.GetTempat, mws...)
	e.GET("/v1/tempat/:id/reviews", b.ListReviews, mws...)
	e.GET("/v1/alat", b.ListAlat, mws...)

	e.POST("/v1/tempat/:id/reviews", b.CreateReview,
		middleware.JWTAuth(jwtSecret), middleware.RequireRole("ADMIN", "CUSTOMER"))
}

// RegisterAdmin registers the catalog management endpoints under
// /v1/admin.  Only ADMIN tokens pass the role middleware.
func RegisterAdmin(e *echo.Echo, v *handler.AdminVenueHandler, t *handler.AdminToolHandler, jwtSecret string) {
	g := e.Group("/v1/admin")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("ADMIN"))

	g.POST("/tempat", v.Create)
	g.PUT("/tempat/:id", v.Update)
	g.DELETE("/tempat/:id", v.Delete)

	g.POST("/alat", t.Create)
	g.PUT("/alat/:id", t.Update)
	g.DELETE("/alat/:id", t.Delete)
}
