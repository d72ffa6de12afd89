package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polydesk/polydesk/internal/models"
	"github.com/polydesk/polydesk/internal/repository"
)

func (s *Server) listDeals(c *gin.Context) {
	deals, err := s.deals.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, deals)
}

func (s *Server) createDeal(c *gin.Context) {
	var deal models.Deal
	if err := c.ShouldBindJSON(&deal); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.deals.Create(c.Request.Context(), &deal); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, deal)
}

func (s *Server) getDeal(c *gin.Context) {
	deal, err := s.deals.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrDealNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "deal not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, deal)
}

func (s *Server) updateDeal(c *gin.Context) {
	var deal models.Deal
	if err := c.ShouldBindJSON(&deal); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	deal.ID = c.Param("id")

	if err := s.deals.Update(c.Request.Context(), &deal); err != nil {
		if errors.Is(err, repository.ErrDealNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "deal not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, deal)
}

func (s *Server) deleteDeal(c *gin.Context) {
	if err := s.deals.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrDealNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "deal not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
