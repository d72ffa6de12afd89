package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/polydesk/polydesk/internal/models"
)

func (s *Server) pushAll(c *gin.Context) {
	result := s.sync.SyncAllDealsToSheets(c.Request.Context())
	c.JSON(http.StatusOK, result)
}

func (s *Server) replaceAll(c *gin.Context) {
	result := s.sync.ReplaceAllDealsInSheets(c.Request.Context())
	c.JSON(http.StatusOK, result)
}

func (s *Server) pullAll(c *gin.Context) {
	result := s.sync.SyncSheetsToDatabase(c.Request.Context())
	c.JSON(http.StatusOK, result)
}

func (s *Server) pushDeal(c *gin.Context) {
	result := s.sync.SyncDealToSheets(c.Request.Context(), c.Param("id"))
	c.JSON(http.StatusOK, result)
}

func (s *Server) compare(c *gin.Context) {
	comparison, err := s.sync.CompareTables(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, comparison)
}

func (s *Server) getSyncConfig(c *gin.Context) {
	c.JSON(http.StatusOK, s.sync.Config())
}

func (s *Server) updateSyncConfig(c *gin.Context) {
	var cfg models.SyncConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.sync.UpdateConfig(cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, s.sync.Config())
}

func (s *Server) listTasks(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	tasks, err := s.tasks.List(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (s *Server) listEvents(c *gin.Context) {
	c.JSON(http.StatusOK, s.bus.History())
}
