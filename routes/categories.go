package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sidhant-sriv/catalog-api/catalog"
	"github.com/sidhant-sriv/catalog-api/models"
)

// CategoryRoutes sets up the read-only category routes and the full catalog
// dump. Categories are created and removed only as a side effect of item
// writes.
func CategoryRoutes(router *gin.Engine, store *catalog.Store) {
	router.GET("/catalog.json", GetCatalog(store))
	router.GET("/categories", GetAllCategories(store))
	router.GET("/categories/:category_id/items", GetCategoryItems(store))
}

// GetAllCategories lists categories by name
func GetAllCategories(store *catalog.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := store.ListCategories(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"categories": models.SerializeCategories(categories)})
	}
}

// GetCategoryItems returns a category together with its items
func GetCategoryItems(store *catalog.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "category_id")
		if !ok {
			return
		}

		category, err := store.GetCategory(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		items, err := store.ListItems(c.Request.Context(), &id)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"category": category.Serialize(),
			"items":    models.SerializeItems(items),
		})
	}
}

func GetCatalog(store *catalog.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := store.ListCategories(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		items, err := store.ListItems(c.Request.Context(), nil)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"categories": models.SerializeCategories(categories),
			"items":      models.SerializeItems(items),
		})
	}
}
