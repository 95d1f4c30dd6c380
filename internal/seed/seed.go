// Package seed заполняет пустое хранилище тестовым каталогом, клиентами и заказами.
package seed

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/backoffice/internal/domain"
	"github.com/vladislavdragonenkov/backoffice/internal/service/backoffice"
)

// Probe сообщает, пусто ли хранилище.
type Probe func(ctx context.Context) (bool, error)

// Result описывает итог загрузки.
type Result struct {
	Skipped   bool
	Items     int
	Customers int
	Orders    int
}

// Loader загружает данные через фасад, чтобы коды и номера выдавались штатным путем.
type Loader struct {
	svc    *backoffice.Service
	repos  backoffice.Repositories
	probe  Probe
	clock  domain.Clock
	logger *log.Entry
}

// Option настраивает Loader.
type Option func(*Loader)

// WithProbe подменяет проверку пустоты, например на Store.IsEmpty для PostgreSQL.
func WithProbe(probe Probe) Option {
	return func(l *Loader) { l.probe = probe }
}

// WithClock задает часы для дат заказов.
func WithClock(clock domain.Clock) Option {
	return func(l *Loader) { l.clock = clock }
}

// WithLogger задает logger.
func WithLogger(logger *log.Entry) Option {
	return func(l *Loader) { l.logger = logger }
}

// NewLoader создает загрузчик тестовых данных.
func NewLoader(svc *backoffice.Service, repos backoffice.Repositories, options ...Option) *Loader {
	l := &Loader{svc: svc, repos: repos, clock: domain.SystemClock}
	for _, option := range options {
		option(l)
	}
	if l.probe == nil {
		l.probe = l.countEmpty
	}
	if l.logger == nil {
		l.logger = log.WithField("component", "seed")
	}
	return l
}

// IsEmpty сообщает, нет ли в хранилище товаров, клиентов и заказов.
func (l *Loader) IsEmpty(ctx context.Context) (bool, error) {
	return l.probe(ctx)
}

func (l *Loader) countEmpty(ctx context.Context) (bool, error) {
	counters := []interface {
		Count(ctx context.Context) (int, error)
	}{l.repos.Items, l.repos.Customers, l.repos.Orders}

	for _, c := range counters {
		n, err := c.Count(ctx)
		if err != nil {
			return false, err
		}
		if n > 0 {
			return false, nil
		}
	}
	return true, nil
}

// Seed загружает данные только в пустое хранилище; иначе ничего не делает.
func (l *Loader) Seed(ctx context.Context) (Result, error) {
	empty, err := l.IsEmpty(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("check store: %w", err)
	}
	if !empty {
		l.logger.Info("store is not empty, seeding skipped")
		return Result{Skipped: true}, nil
	}

	if err := l.resetSequences(ctx); err != nil {
		return Result{}, err
	}

	var res Result
	codes := make(map[string]string, len(catalog))
	for _, in := range catalog {
		created, err := l.svc.AddItem(ctx, in)
		if err != nil {
			return res, fmt.Errorf("seed item %q: %w", in.Description, err)
		}
		codes[in.Description] = created.Item.Code
		res.Items++
	}

	for _, in := range customers {
		if _, err := l.svc.AddCustomer(ctx, in); err != nil {
			return res, fmt.Errorf("seed customer %s: %w", in.TaxID, err)
		}
		res.Customers++
	}

	today := domain.StartOfDay(l.clock())
	for _, o := range orders {
		_, err := l.svc.PlaceOrder(ctx, backoffice.OrderInput{
			TaxID:     o.taxID,
			ItemCode:  codes[o.item],
			Quantity:  o.quantity,
			OrderDate: today.AddDate(0, 0, -o.daysAgo),
		})
		if err != nil {
			return res, fmt.Errorf("seed order for %s: %w", o.taxID, err)
		}
		res.Orders++
	}

	l.logger.WithFields(log.Fields{
		"items":     res.Items,
		"customers": res.Customers,
		"orders":    res.Orders,
	}).Info("test data seeded")
	return res, nil
}

func (l *Loader) resetSequences(ctx context.Context) error {
	resetters := []struct {
		name string
		repo interface {
			ResetIDSequence(ctx context.Context) error
		}
	}{
		{"items", l.repos.Items},
		{"customers", l.repos.Customers},
		{"addresses", l.repos.Addresses},
		{"orders", l.repos.Orders},
	}
	for _, r := range resetters {
		if err := r.repo.ResetIDSequence(ctx); err != nil {
			return fmt.Errorf("reset %s sequence: %w", r.name, err)
		}
	}
	return nil
}

var catalog = []backoffice.ItemInput{
	{Description: "Corbatero", Price: decimal.RequireFromString("10.50"), ShippingCost: decimal.RequireFromString("10.00"), PreparationDays: 1},
	{Description: "Cinturón de cuero", Price: decimal.RequireFromString("24.90"), ShippingCost: decimal.RequireFromString("4.50"), PreparationDays: 2},
	{Description: "Pañuelo de seda", Price: decimal.RequireFromString("15.00"), ShippingCost: decimal.RequireFromString("3.00")},
	{Description: "Gemelos de plata", Price: decimal.RequireFromString("32.00"), ShippingCost: decimal.Zero, PreparationDays: 3},
}

var customers = []backoffice.CustomerInput{
	{
		Name:  "Ana García",
		TaxID: "11111111A",
		Email: "ana.garcia@example.com",
		Address: domain.Address{
			Street: "Calle Mayor 1", City: "Madrid", Region: "Madrid", PostalCode: "28013", Country: "ES",
		},
	},
	{
		Name:    "Luis Pérez",
		TaxID:   "12345678B",
		Email:   "luis.perez@example.com",
		Premium: true,
		Address: domain.Address{
			Street: "Passeig de Gràcia 10", City: "Barcelona", Region: "Cataluña", PostalCode: "08007", Country: "ES",
		},
	},
	{
		Name:                 "Marta López",
		TaxID:                "22222222C",
		Email:                "marta.lopez@example.com",
		Premium:              true,
		AnnualFee:            decimal.NewNullDecimal(decimal.RequireFromString("45.00")),
		ShippingDiscountRate: decimal.NewNullDecimal(decimal.RequireFromString("0.50")),
	},
}

var orders = []struct {
	taxID    string
	item     string
	quantity int
	daysAgo  int
}{
	{taxID: "12345678B", item: "Corbatero", quantity: 5, daysAgo: 0},
	{taxID: "11111111A", item: "Cinturón de cuero", quantity: 1, daysAgo: 5},
	{taxID: "22222222C", item: "Gemelos de plata", quantity: 2, daysAgo: 1},
}
