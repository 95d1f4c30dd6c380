package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vladislavdragonenkov/backoffice/internal/domain"
	"github.com/vladislavdragonenkov/backoffice/internal/service/backoffice"
)

func (h *handler) createItem(c *gin.Context) {
	var req createItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	created, err := h.svc.AddItem(c.Request.Context(), backoffice.ItemInput{
		Description:     req.Description,
		Price:           req.Price,
		ShippingCost:    req.ShippingCost,
		PreparationDays: req.PreparationDays,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	resp := toItemResponse(created.Item)
	resp.DuplicateDescription = created.DuplicateDescription
	c.JSON(http.StatusCreated, resp)
}

func (h *handler) listItems(c *gin.Context) {
	items, err := h.svc.ListItems(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(items, toItemResponse))
}

func (h *handler) getItem(c *gin.Context) {
	item, err := h.svc.FindItem(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toItemResponse(item))
}

func (h *handler) deleteItem(c *gin.Context) {
	if err := h.svc.DeleteItem(c.Request.Context(), c.Param("code")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) createCustomer(c *gin.Context) {
	var req createCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	customer, err := h.svc.AddCustomer(c.Request.Context(), backoffice.CustomerInput{
		Name:                 req.Name,
		TaxID:                req.TaxID,
		Email:                req.Email,
		Address:              req.Address.toDomain(),
		Premium:              req.Premium,
		AnnualFee:            req.AnnualFee,
		ShippingDiscountRate: req.ShippingDiscountRate,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, toCustomerResponse(customer))
}

func (h *handler) listCustomers(c *gin.Context) {
	customers, err := h.svc.ListCustomers(c.Request.Context(), domain.CustomerKind(c.Query("kind")))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(customers, toCustomerResponse))
}

func (h *handler) getCustomer(c *gin.Context) {
	customer, err := h.svc.FindCustomer(c.Request.Context(), c.Param("taxID"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toCustomerResponse(customer))
}

func (h *handler) updateCustomer(c *gin.Context) {
	var req updateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	customer, err := h.svc.UpdateCustomer(c.Request.Context(), c.Param("taxID"), backoffice.CustomerUpdate{
		Name:    req.Name,
		Email:   req.Email,
		Address: req.Address.toDomain(),
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toCustomerResponse(customer))
}

func (h *handler) deleteCustomer(c *gin.Context) {
	if err := h.svc.DeleteCustomer(c.Request.Context(), c.Param("taxID")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) placeOrder(c *gin.Context) {
	var req placeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	order, err := h.svc.PlaceOrder(c.Request.Context(), backoffice.OrderInput{
		TaxID:     req.TaxID,
		ItemCode:  req.ItemCode,
		Quantity:  req.Quantity,
		OrderDate: req.OrderDate,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, toOrderResponse(order))
}

// listOrders: ?status=&customer= фильтрует заказы; ?ship_from=&ship_to= (YYYY-MM-DD) выбирает окно дат отправки.
func (h *handler) listOrders(c *gin.Context) {
	from, fromSet, err := dateQuery(c, "ship_from")
	if err != nil {
		badRequest(c, err)
		return
	}
	to, toSet, err := dateQuery(c, "ship_to")
	if err != nil {
		badRequest(c, err)
		return
	}

	var orders []domain.Order
	if fromSet || toSet {
		orders, err = h.svc.ListOrdersByShipDate(c.Request.Context(), from, to)
	} else {
		orders, err = h.svc.ListOrders(c.Request.Context(), domain.OrderFilter{
			Status:        domain.StatusFilter(c.Query("status")),
			CustomerTaxID: c.Query("customer"),
		})
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(orders, toOrderResponse))
}

func (h *handler) getOrder(c *gin.Context) {
	number, ok := orderNumber(c)
	if !ok {
		return
	}
	order, err := h.svc.FindOrder(c.Request.Context(), number)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(order))
}

func (h *handler) deleteOrder(c *gin.Context) {
	number, ok := orderNumber(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteOrder(c.Request.Context(), number); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) advanceOrders(c *gin.Context) {
	shipped, err := h.svc.AdvanceDueOrders(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"shipped": shipped})
}

func (h *handler) orderTimeline(c *gin.Context) {
	number, ok := orderNumber(c)
	if !ok {
		return
	}
	events, err := h.svc.OrderTimeline(c.Request.Context(), number)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(events, func(e domain.TimelineEvent) timelineEventResponse {
		return timelineEventResponse{Type: e.Type, Reason: e.Reason, Occurred: e.Occurred}
	}))
}

func orderNumber(c *gin.Context) (int64, bool) {
	number, err := strconv.ParseInt(c.Param("number"), 10, 64)
	if err != nil || number < 1 {
		badRequest(c, fmt.Errorf("invalid order number %q", c.Param("number")))
		return 0, false
	}
	return number, true
}

func dateQuery(c *gin.Context, key string) (time.Time, bool, error) {
	raw, ok := c.GetQuery(key)
	if !ok || raw == "" {
		return time.Time{}, false, nil
	}
	t, err := time.ParseInLocation(dateLayout, raw, time.UTC)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("%s: expected YYYY-MM-DD: %w", key, err)
	}
	return t, true, nil
}
