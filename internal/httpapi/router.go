package httpapi

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/backoffice/internal/domain"
	"github.com/vladislavdragonenkov/backoffice/internal/service/backoffice"
)

// Backoffice — операции фасада, доступные по HTTP.
type Backoffice interface {
	AddItem(ctx context.Context, in backoffice.ItemInput) (backoffice.ItemCreation, error)
	ListItems(ctx context.Context) ([]domain.Item, error)
	FindItem(ctx context.Context, code string) (domain.Item, error)
	DeleteItem(ctx context.Context, code string) error

	AddCustomer(ctx context.Context, in backoffice.CustomerInput) (domain.Customer, error)
	UpdateCustomer(ctx context.Context, taxID string, upd backoffice.CustomerUpdate) (domain.Customer, error)
	ListCustomers(ctx context.Context, kind domain.CustomerKind) ([]domain.Customer, error)
	FindCustomer(ctx context.Context, taxID string) (domain.Customer, error)
	DeleteCustomer(ctx context.Context, taxID string) error

	PlaceOrder(ctx context.Context, in backoffice.OrderInput) (domain.Order, error)
	FindOrder(ctx context.Context, number int64) (domain.Order, error)
	ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)
	ListOrdersByShipDate(ctx context.Context, from, to time.Time) ([]domain.Order, error)
	DeleteOrder(ctx context.Context, number int64) error
	AdvanceDueOrders(ctx context.Context) (int, error)
	OrderTimeline(ctx context.Context, number int64) ([]domain.TimelineEvent, error)
}

type handler struct {
	svc    Backoffice
	logger *log.Entry
}

// NewRouter собирает gin-роутер поверх фасада.
func NewRouter(svc Backoffice, logger *log.Entry) *gin.Engine {
	if logger == nil {
		logger = log.WithField("component", "http-api")
	}
	h := &handler{svc: svc, logger: logger}

	router := gin.New()
	router.Use(requestLogger(logger), gin.Recovery())

	items := router.Group("/items")
	items.POST("", h.createItem)
	items.GET("", h.listItems)
	items.GET("/:code", h.getItem)
	items.DELETE("/:code", h.deleteItem)

	customers := router.Group("/customers")
	customers.POST("", h.createCustomer)
	customers.GET("", h.listCustomers)
	customers.GET("/:taxID", h.getCustomer)
	customers.PATCH("/:taxID", h.updateCustomer)
	customers.DELETE("/:taxID", h.deleteCustomer)

	orders := router.Group("/orders")
	orders.POST("", h.placeOrder)
	orders.GET("", h.listOrders)
	orders.POST("/advance", h.advanceOrders)
	orders.GET("/:number", h.getOrder)
	orders.DELETE("/:number", h.deleteOrder)
	orders.GET("/:number/timeline", h.orderTimeline)

	return router
}

func requestLogger(logger *log.Entry) gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()

		entry := logger.WithFields(log.Fields{
			"method":      c.Request.Method,
			"path":        c.FullPath(),
			"status":      c.Writer.Status(),
			"duration_ms": time.Since(started).Milliseconds(),
		})
		if c.Writer.Status() >= 500 {
			entry.Warn("http request failed")
			return
		}
		entry.Debug("http request")
	}
}
