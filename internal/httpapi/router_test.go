package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/backoffice/internal/domain"
	"github.com/vladislavdragonenkov/backoffice/internal/service/backoffice"
	"github.com/vladislavdragonenkov/backoffice/internal/storage/memory"
)

type apiFixture struct {
	t      *testing.T
	now    time.Time
	router *gin.Engine
}

func newAPI(t *testing.T) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &apiFixture{t: t, now: time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)}
	svc, err := backoffice.New(context.Background(), backoffice.Repositories{
		Items:     memory.NewItemRepository(),
		Customers: memory.NewCustomerRepository(),
		Orders:    memory.NewOrderRepository(),
		Addresses: memory.NewAddressRepository(),
		Timeline:  memory.NewTimelineRepository(),
	}, backoffice.WithClock(func() time.Time { return f.now }))
	require.NoError(t, err)

	f.router = NewRouter(svc, nil)
	return f
}

func (f *apiFixture) do(method, path string, body any) *httptest.ResponseRecorder {
	f.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(f.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func (f *apiFixture) seedPremiumOrder() (itemResponse, orderResponse) {
	f.t.Helper()

	rec := f.do(http.MethodPost, "/customers", map[string]any{
		"name": "Luis", "tax_id": "12345678B", "email": "luis@example.com", "premium": true,
	})
	require.Equal(f.t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = f.do(http.MethodPost, "/items", map[string]any{
		"description": "Corbatero", "price": "10.50", "shipping_cost": "10.0", "preparation_days": 1,
	})
	require.Equal(f.t, http.StatusCreated, rec.Code, rec.Body.String())
	item := decode[itemResponse](f.t, rec)

	rec = f.do(http.MethodPost, "/orders", map[string]any{
		"tax_id": "12345678B", "item_code": item.Code, "quantity": 5,
	})
	require.Equal(f.t, http.StatusCreated, rec.Code, rec.Body.String())
	return item, decode[orderResponse](f.t, rec)
}

func TestOrderLifecycleOverHTTP(t *testing.T) {
	api := newAPI(t)
	item, order := api.seedPremiumOrder()

	require.Equal(t, int64(1), order.Number)
	require.Equal(t, "52.50", order.Subtotal)
	require.Equal(t, "8.00", order.ShippingCost)
	require.Equal(t, "60.50", order.Total)
	require.Equal(t, "2024-03-02", order.ShipDate)
	require.Equal(t, string(domain.OrderStatusPending), order.Status)

	rec := api.do(http.MethodPost, "/orders/advance", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, map[string]int{"shipped": 0}, decode[map[string]int](t, rec))

	api.now = api.now.AddDate(0, 0, 1)
	rec = api.do(http.MethodPost, "/orders/advance", nil)
	require.Equal(t, map[string]int{"shipped": 1}, decode[map[string]int](t, rec))

	rec = api.do(http.MethodGet, "/orders/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, string(domain.OrderStatusShipped), decode[orderResponse](t, rec).Status)

	rec = api.do(http.MethodDelete, "/orders/1", nil)
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "invalid_state", decode[errorResponse](t, rec).Kind)

	rec = api.do(http.MethodDelete, "/items/"+item.Code, nil)
	require.Equal(t, http.StatusConflict, rec.Code)
	refErr := decode[errorResponse](t, rec)
	require.Equal(t, "referential_integrity", refErr.Kind)
	require.Equal(t, []int64{1}, refErr.Orders)

	rec = api.do(http.MethodGet, "/orders/1/timeline", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	timeline := decode[[]timelineEventResponse](t, rec)
	require.Len(t, timeline, 2)
	require.Equal(t, domain.TimelineOrderShipped, timeline[1].Type)
}

func TestDeletePendingOrder(t *testing.T) {
	api := newAPI(t)
	api.seedPremiumOrder()

	rec := api.do(http.MethodDelete, "/orders/1", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = api.do(http.MethodGet, "/orders/1", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateItemReportsDuplicateDescription(t *testing.T) {
	api := newAPI(t)

	body := map[string]any{"description": "Corbatero", "price": 1, "shipping_cost": 0}
	first := decode[itemResponse](t, api.do(http.MethodPost, "/items", body))
	require.False(t, first.DuplicateDescription)

	rec := api.do(http.MethodPost, "/items", body)
	require.Equal(t, http.StatusCreated, rec.Code)
	second := decode[itemResponse](t, rec)
	require.True(t, second.DuplicateDescription)
	require.NotEqual(t, first.Code, second.Code)

	rec = api.do(http.MethodGet, "/items", nil)
	require.Len(t, decode[[]itemResponse](t, rec), 2)
}

func TestErrorStatusMapping(t *testing.T) {
	api := newAPI(t)
	api.seedPremiumOrder()

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
		kind   string
	}{
		{
			name: "validation", method: http.MethodPost, path: "/items",
			body: map[string]any{"description": "", "price": -1, "shipping_cost": 0},
			want: http.StatusBadRequest, kind: "validation",
		},
		{
			name: "duplicate tax id", method: http.MethodPost, path: "/customers",
			body: map[string]any{"name": "Otro", "tax_id": "12345678b", "email": "o@example.com"},
			want: http.StatusConflict, kind: "duplicate",
		},
		{
			name: "unknown customer", method: http.MethodGet, path: "/customers/00000000Z",
			want: http.StatusNotFound, kind: "not_found",
		},
		{
			name: "referenced customer", method: http.MethodDelete, path: "/customers/12345678B",
			want: http.StatusConflict, kind: "referential_integrity",
		},
		{
			name: "zero quantity", method: http.MethodPost, path: "/orders",
			body: map[string]any{"tax_id": "12345678B", "item_code": "A000001", "quantity": 0},
			want: http.StatusBadRequest, kind: "validation",
		},
		{
			name: "bad order number", method: http.MethodGet, path: "/orders/abc",
			want: http.StatusBadRequest, kind: "validation",
		},
		{
			name: "unknown status filter", method: http.MethodGet, path: "/orders?status=lost",
			want: http.StatusBadRequest, kind: "validation",
		},
		{
			name: "unknown customer kind", method: http.MethodGet, path: "/customers?kind=gold",
			want: http.StatusBadRequest, kind: "validation",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := api.do(tt.method, tt.path, tt.body)
			require.Equal(t, tt.want, rec.Code, rec.Body.String())
			require.Equal(t, tt.kind, decode[errorResponse](t, rec).Kind)
		})
	}
}

func TestListOrdersQueries(t *testing.T) {
	api := newAPI(t)
	api.seedPremiumOrder()

	rec := api.do(http.MethodGet, "/orders?status=pending&customer=12345678B", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decode[[]orderResponse](t, rec), 1)

	rec = api.do(http.MethodGet, "/orders?status=shipped", nil)
	require.Empty(t, decode[[]orderResponse](t, rec))

	rec = api.do(http.MethodGet, "/orders?ship_from=2024-03-02&ship_to=2024-03-02", nil)
	require.Len(t, decode[[]orderResponse](t, rec), 1)

	rec = api.do(http.MethodGet, "/orders?ship_from=2024-03-03", nil)
	require.Empty(t, decode[[]orderResponse](t, rec))

	rec = api.do(http.MethodGet, "/orders?ship_to=03/02/2024", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCustomerUpdateAndDelete(t *testing.T) {
	api := newAPI(t)

	rec := api.do(http.MethodPost, "/customers", map[string]any{
		"name": "Ana", "tax_id": "11111111A", "email": "ana@example.com",
		"address": map[string]string{"street": "Calle Mayor 1", "city": "Madrid"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[customerResponse](t, rec)
	require.Equal(t, "standard", created.Kind)
	require.Equal(t, "0.00", created.AnnualFee)
	require.NotNil(t, created.Address)

	rec = api.do(http.MethodPatch, "/customers/11111111A", map[string]any{"email": "nueva@example.com"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "nueva@example.com", decode[customerResponse](t, rec).Email)

	rec = api.do(http.MethodGet, "/customers?kind=standard", nil)
	require.Len(t, decode[[]customerResponse](t, rec), 1)

	rec = api.do(http.MethodDelete, "/customers/11111111A", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestPremiumCustomerCustomTerms(t *testing.T) {
	api := newAPI(t)

	rec := api.do(http.MethodPost, "/customers", map[string]any{
		"name": "Eva", "tax_id": "22222222C", "email": "eva@example.com",
		"premium": true, "annual_fee": "45", "shipping_discount_rate": "0.5",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	resp := decode[customerResponse](t, rec)
	require.Equal(t, "45.00", resp.AnnualFee)
	require.Equal(t, "0.5", resp.ShippingDiscountRate)
	require.Contains(t, resp.MembershipCode, domain.MembershipCodePrefix)
}

func TestMalformedJSON(t *testing.T) {
	api := newAPI(t)

	req := httptest.NewRequest(http.MethodPost, "/items", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatusForPersistenceHidesDetails(t *testing.T) {
	code, kind := statusFor(errors.Join(domain.ErrPersistence, errors.New("dial tcp: refused")))
	require.Equal(t, http.StatusInternalServerError, code)
	require.Equal(t, "persistence", kind)
}
