package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/backoffice/internal/domain"
)

func TestCatalogRepositories_PostgresRoundTrip(t *testing.T) {
	store := migratedStore(t)
	ctx := context.Background()

	items := NewItemRepository(store)
	customers := NewCustomerRepository(store)
	addresses := NewAddressRepository(store)

	item := domain.NewItem("Corbatero", decimal.RequireFromString("10.50"), decimal.RequireFromString("10"), 1)
	item.Code = "A000001"
	item, err := items.Save(ctx, item)
	require.NoError(t, err)
	require.NotZero(t, item.ID)

	duplicate := item
	duplicate.ID = 0
	_, err = items.Save(ctx, duplicate)
	require.ErrorIs(t, err, domain.ErrDuplicateItemCode)

	found, err := items.FindOne(ctx, "A000001")
	require.NoError(t, err)
	require.True(t, found.Price.Equal(decimal.RequireFromString("10.50")))

	addr, err := addresses.Save(ctx, domain.Address{Street: "Calle Mayor 1", City: "Madrid", Country: "ES"})
	require.NoError(t, err)

	premium := domain.NewPremiumCustomer("Luis", "12345678b", "luis@example.com", addr, domain.DefaultMembership("PREMIUM000001"))
	premium, err = customers.Save(ctx, premium)
	require.NoError(t, err)

	loaded, err := customers.FindOne(ctx, " 12345678B ")
	require.NoError(t, err)
	require.Equal(t, domain.CustomerKindPremium, loaded.Kind)
	require.Equal(t, "Madrid", loaded.Address.City)
	require.Equal(t, "PREMIUM000001", loaded.Membership.Code)
	require.True(t, loaded.ShippingDiscountRate().Equal(decimal.RequireFromString("0.20")))

	_, err = customers.Save(ctx, domain.NewStandardCustomer("Dup", "12345678B", "d@x", domain.Address{}))
	require.ErrorIs(t, err, domain.ErrDuplicateTaxID)

	count, err := customers.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, count)

	require.NoError(t, customers.Delete(ctx, premium.ID))
	require.NoError(t, addresses.Delete(ctx, addr.ID))
	_, err = addresses.FindByID(ctx, addr.ID)
	require.ErrorIs(t, err, domain.ErrAddressNotFound)
}

func TestOrderRepository_PostgresSnapshotAndMonotonicShipped(t *testing.T) {
	store := migratedStore(t)
	ctx := context.Background()
	orders := NewOrderRepository(store)

	item := domain.NewItem("Corbatero", decimal.RequireFromString("10.50"), decimal.RequireFromString("10"), 1)
	item.Code = "A000001"
	customer := domain.NewPremiumCustomer("Luis", "12345678B", "luis@example.com", domain.Address{}, domain.DefaultMembership("PREMIUM000001"))

	order := domain.NewOrder(customer, item, 5, time.Date(2024, time.March, 1, 9, 30, 0, 0, time.UTC))
	order.Number = 1
	order, err := orders.Save(ctx, order)
	require.NoError(t, err)

	loaded, err := orders.FindOne(ctx, 1)
	require.NoError(t, err)
	require.True(t, loaded.Total().Equal(decimal.RequireFromString("60.50")))
	require.Equal(t, "Corbatero", loaded.Item.Description)

	loaded.Shipped = true
	_, err = orders.Save(ctx, loaded)
	require.NoError(t, err)

	loaded.Shipped = false
	_, err = orders.Save(ctx, loaded)
	require.NoError(t, err)

	again, err := orders.FindByID(ctx, order.ID)
	require.NoError(t, err)
	require.True(t, again.Shipped, "shipped must never revert")

	dup := domain.NewOrder(customer, item, 1, time.Now())
	dup.Number = 1
	_, err = orders.Save(ctx, dup)
	require.ErrorIs(t, err, domain.ErrDuplicateOrderNumber)

	last, err := orders.GetLast(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), last.Number)

	require.NoError(t, orders.Delete(ctx, order.ID))
	require.NoError(t, orders.ResetIDSequence(ctx))
	_, err = orders.GetLast(ctx)
	require.ErrorIs(t, err, domain.ErrOrderNotFound)

	highest, err := orders.HighestNumber(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), highest, "deleted order numbers stay issued")
}
