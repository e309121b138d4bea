package web

import (
	"aerobook/internal/trip"
	"aerobook/pkg/session"

	"github.com/gin-gonic/gin"
)

// TripStore returns the flow-state store for the request's session.
func TripStore(c *gin.Context) *trip.Store {
	return trip.NewStore(session.FromContext(c))
}
