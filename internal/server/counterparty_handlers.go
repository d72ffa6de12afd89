package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/polydesk/polydesk/internal/models"
	"github.com/polydesk/polydesk/internal/repository"
)

func (s *Server) listCounterparties(c *gin.Context) {
	cps, err := s.counterparties.List(c.Request.Context(), c.Query("kind"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, cps)
}

func (s *Server) createCounterparty(c *gin.Context) {
	var cp models.Counterparty
	if err := c.ShouldBindJSON(&cp); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := validateCounterparty(&cp); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if cp.ID == "" {
		cp.ID = uuid.New().String()
	}

	if err := s.counterparties.Create(c.Request.Context(), &cp); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, cp)
}

func (s *Server) getCounterparty(c *gin.Context) {
	cp, err := s.counterparties.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrCounterpartyNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "counterparty not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, cp)
}

func (s *Server) updateCounterparty(c *gin.Context) {
	var cp models.Counterparty
	if err := c.ShouldBindJSON(&cp); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cp.ID = c.Param("id")
	if err := validateCounterparty(&cp); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.counterparties.Update(c.Request.Context(), &cp); err != nil {
		if errors.Is(err, repository.ErrCounterpartyNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "counterparty not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, cp)
}

func (s *Server) deleteCounterparty(c *gin.Context) {
	if err := s.counterparties.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrCounterpartyNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "counterparty not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func validateCounterparty(cp *models.Counterparty) error {
	if cp.Name == "" {
		return fmt.Errorf("name is required")
	}
	switch cp.Kind {
	case models.CounterpartyCustomer, models.CounterpartySupplier, models.CounterpartyBoth:
		return nil
	default:
		return fmt.Errorf("invalid counterparty kind %q", cp.Kind)
	}
}
