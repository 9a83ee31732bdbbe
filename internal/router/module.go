package router

import "github.com/gin-gonic/gin"

// Module is one route surface of the API (users, classes, bookings,
// payments); each registers its own routes on the shared /api group.
type Module interface {
	Register(rg *gin.RouterGroup)
}
