package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polydesk/polydesk/internal/events"
	"github.com/polydesk/polydesk/internal/models"
	"github.com/polydesk/polydesk/internal/service"
)

// CounterpartyStore is the counterparty persistence surface handlers use.
type CounterpartyStore interface {
	Create(ctx context.Context, cp *models.Counterparty) error
	GetByID(ctx context.Context, id string) (*models.Counterparty, error)
	List(ctx context.Context, kind string) ([]models.Counterparty, error)
	Update(ctx context.Context, cp *models.Counterparty) error
	Delete(ctx context.Context, id string) error
}

// InventoryCRUD is the inventory persistence surface handlers use.
type InventoryCRUD interface {
	Create(ctx context.Context, lot *models.InventoryLot) error
	GetByID(ctx context.Context, id string) (*models.InventoryLot, error)
	List(ctx context.Context, productCode string) ([]models.InventoryLot, error)
	Update(ctx context.Context, lot *models.InventoryLot) error
	Delete(ctx context.Context, id string) error
}

// TaskLister exposes recent outbox tasks for inspection.
type TaskLister interface {
	List(ctx context.Context, limit int) ([]models.SyncTask, error)
}

// Analytics computes the dashboard summary.
type Analytics interface {
	Summary(ctx context.Context) (*service.AnalyticsSummary, error)
}

// Server wires the HTTP API over the deal, sync, and analytics services.
type Server struct {
	deals          *service.DealService
	sync           *service.SyncService
	analytics      Analytics
	counterparties CounterpartyStore
	inventory      InventoryCRUD
	tasks          TaskLister
	bus            *events.Bus
}

func New(
	deals *service.DealService,
	sync *service.SyncService,
	analytics Analytics,
	counterparties CounterpartyStore,
	inventory InventoryCRUD,
	tasks TaskLister,
	bus *events.Bus,
) *Server {
	return &Server{
		deals:          deals,
		sync:           sync,
		analytics:      analytics,
		counterparties: counterparties,
		inventory:      inventory,
		tasks:          tasks,
		bus:            bus,
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.GET("/health", s.health)

	api := r.Group("/api")
	{
		api.GET("/deals", s.listDeals)
		api.POST("/deals", s.createDeal)
		api.GET("/deals/:id", s.getDeal)
		api.PUT("/deals/:id", s.updateDeal)
		api.DELETE("/deals/:id", s.deleteDeal)

		api.GET("/counterparties", s.listCounterparties)
		api.POST("/counterparties", s.createCounterparty)
		api.GET("/counterparties/:id", s.getCounterparty)
		api.PUT("/counterparties/:id", s.updateCounterparty)
		api.DELETE("/counterparties/:id", s.deleteCounterparty)

		api.GET("/inventory", s.listInventory)
		api.POST("/inventory", s.createInventoryLot)
		api.PUT("/inventory/:id", s.updateInventoryLot)
		api.DELETE("/inventory/:id", s.deleteInventoryLot)

		api.GET("/analytics/summary", s.analyticsSummary)

		syncGroup := api.Group("/sync")
		{
			syncGroup.POST("/push", s.pushAll)
			syncGroup.POST("/replace", s.replaceAll)
			syncGroup.POST("/pull", s.pullAll)
			syncGroup.POST("/deals/:id", s.pushDeal)
			syncGroup.GET("/compare", s.compare)
			syncGroup.GET("/config", s.getSyncConfig)
			syncGroup.PUT("/config", s.updateSyncConfig)
			syncGroup.GET("/tasks", s.listTasks)
			syncGroup.GET("/events", s.listEvents)
		}
	}

	return r
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
