// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"slotwise/config"
	"slotwise/internal/delivery/api/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	EligibilityHandler    *handler.EligibilityHandler
	RecommendationHandler *handler.RecommendationHandler
	BookingHandler        *handler.BookingHandler
	Config                *config.Config
}

// router holds all the handlers that need to be registered.
type router struct {
	eligibilityHandler    *handler.EligibilityHandler
	recommendationHandler *handler.RecommendationHandler
	bookingHandler        *handler.BookingHandler
	config                *config.Config
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		eligibilityHandler:    params.EligibilityHandler,
		recommendationHandler: params.RecommendationHandler,
		bookingHandler:        params.BookingHandler,
		config:                params.Config,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// API v1 routes
	apiV1 := e.Group("/api/v1")

	// Zone eligibility routes
	eligibilityGroup := apiV1.Group("/eligibility")
	{
		eligibilityGroup.POST("/check", r.eligibilityHandler.CheckEligibility)
	}

	// Slot and location recommendation routes
	recommendationsGroup := apiV1.Group("/recommendations")
	{
		recommendationsGroup.POST("/slots", r.recommendationHandler.RecommendSlots)
		recommendationsGroup.POST("/locations", r.recommendationHandler.RecommendLocations)
	}

	// Booking lifecycle routes
	bookingsGroup := apiV1.Group("/bookings")
	{
		bookingsGroup.POST("", r.bookingHandler.CreateBooking)
		bookingsGroup.POST("/reschedule", r.bookingHandler.RescheduleBooking)
		bookingsGroup.POST("/cancel", r.bookingHandler.CancelBooking)
		bookingsGroup.GET("/:orderId/qrcode", r.bookingHandler.PickupQR)
	}
}
