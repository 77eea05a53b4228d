package routes

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sidhant-sriv/catalog-api/catalog"
	"github.com/sidhant-sriv/catalog-api/middleware"
	"github.com/sidhant-sriv/catalog-api/models"
)

type itemRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// ItemRoutes sets up the routes for item-related operations. Reads are
// public, writes need an access token.
func ItemRoutes(router *gin.Engine, store *catalog.Store, secret []byte) {
	itemRoutes := router.Group("/items")
	{
		itemRoutes.GET("", GetAllItems(store))
		itemRoutes.GET("/:item_id", GetItem(store))
	}

	protected := router.Group("/items")
	protected.Use(middleware.AuthMiddleware(secret))
	{
		protected.POST("", CreateItem(store))
		protected.PUT("/:item_id", UpdateItem(store))
		protected.DELETE("/:item_id", DeleteItem(store))
	}
}

// CreateItem handles the creation of a new item
func CreateItem(store *catalog.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req itemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		item, err := store.CreateItem(c.Request.Context(), catalog.NewItem{
			Name:        req.Name,
			Description: req.Description,
			Category:    req.Category,
			UserID:      middleware.GetUserID(c),
		})
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{"item": item.Serialize()})
	}
}

// GetItem retrieves an item by ID
func GetItem(store *catalog.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "item_id")
		if !ok {
			return
		}

		item, err := store.GetItem(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"item": item.Serialize()})
	}
}

// GetAllItems lists items, optionally narrowed by ?category_id=
func GetAllItems(store *catalog.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var categoryID *uint
		if raw := c.Query("category_id"); raw != "" {
			id, err := strconv.ParseUint(raw, 10, 64)
			if err != nil || id == 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category_id"})
				return
			}
			cid := uint(id)
			categoryID = &cid
		}

		items, err := store.ListItems(c.Request.Context(), categoryID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"items": models.SerializeItems(items)})
	}
}

// UpdateItem edits an item owned by the caller. An empty name keeps the
// current one.
func UpdateItem(store *catalog.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "item_id")
		if !ok {
			return
		}

		var req itemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		item, err := store.EditItem(c.Request.Context(), id, catalog.ItemEdit{
			Name:        req.Name,
			Description: req.Description,
			Category:    req.Category,
		}, middleware.GetUserID(c))
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"item": item.Serialize()})
	}
}

// DeleteItem removes an item owned by the caller
func DeleteItem(store *catalog.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "item_id")
		if !ok {
			return
		}

		if err := store.DeleteItem(c.Request.Context(), id, middleware.GetUserID(c)); err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Item deleted successfully"})
	}
}
