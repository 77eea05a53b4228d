package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sidhant-sriv/catalog-api/catalog"
	"github.com/sidhant-sriv/catalog-api/identity"
	"github.com/sidhant-sriv/catalog-api/middleware"
	"github.com/sirupsen/logrus"
)

// NewRouter builds the engine with every catalog route registered.
func NewRouter(store *catalog.Store, providers identity.Registry, secret []byte, log logrus.FieldLogger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.Logger(log))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	AuthRoutes(router, store, providers, secret)
	CategoryRoutes(router, store)
	ItemRoutes(router, store, secret)
	return router
}
