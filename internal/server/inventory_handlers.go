package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/polydesk/polydesk/internal/models"
	"github.com/polydesk/polydesk/internal/repository"
)

func (s *Server) listInventory(c *gin.Context) {
	lots, err := s.inventory.List(c.Request.Context(), c.Query("productCode"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, lots)
}

func (s *Server) createInventoryLot(c *gin.Context) {
	var lot models.InventoryLot
	if err := c.ShouldBindJSON(&lot); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if lot.ProductCode == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "productCode is required"})
		return
	}
	if lot.Quantity.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity must not be negative"})
		return
	}
	if lot.ID == "" {
		lot.ID = uuid.New().String()
	}

	if err := s.inventory.Create(c.Request.Context(), &lot); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, lot)
}

func (s *Server) updateInventoryLot(c *gin.Context) {
	var lot models.InventoryLot
	if err := c.ShouldBindJSON(&lot); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	lot.ID = c.Param("id")
	if lot.ProductCode == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "productCode is required"})
		return
	}
	if lot.Quantity.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity must not be negative"})
		return
	}

	if err := s.inventory.Update(c.Request.Context(), &lot); err != nil {
		if errors.Is(err, repository.ErrLotNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "inventory lot not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, lot)
}

func (s *Server) deleteInventoryLot(c *gin.Context) {
	if err := s.inventory.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrLotNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "inventory lot not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) analyticsSummary(c *gin.Context) {
	summary, err := s.analytics.Summary(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}
