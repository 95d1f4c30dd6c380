package backoffice

import (
	"context"
	"errors"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/backoffice/internal/codegen"
	"github.com/vladislavdragonenkov/backoffice/internal/domain"
	"github.com/vladislavdragonenkov/backoffice/internal/metrics"
)

// Repositories — хранилища, с которыми работает сервис.
// Timeline необязателен: без него история заказов не ведётся.
type Repositories struct {
	Items     domain.ItemRepository
	Customers domain.CustomerRepository
	Orders    domain.OrderRepository
	Addresses domain.AddressRepository
	Timeline  domain.TimelineRepository
}

func (r Repositories) validate() error {
	var errs []error
	if r.Items == nil {
		errs = append(errs, errors.New("item repository is required"))
	}
	if r.Customers == nil {
		errs = append(errs, errors.New("customer repository is required"))
	}
	if r.Orders == nil {
		errs = append(errs, errors.New("order repository is required"))
	}
	if r.Addresses == nil {
		errs = append(errs, errors.New("address repository is required"))
	}
	return errors.Join(errs...)
}

// Options задаёт необязательные зависимости сервиса.
type Options struct {
	Logger    *log.Entry
	Clock     domain.Clock
	Publisher domain.EventPublisher
	Metrics   *metrics.EngineMetrics
}

// Option настраивает Service.
type Option func(*Options)

// WithLogger задаёт logger.
func WithLogger(logger *log.Entry) Option {
	return func(opts *Options) {
		opts.Logger = logger
	}
}

// WithClock подменяет источник текущего времени.
func WithClock(clock domain.Clock) Option {
	return func(opts *Options) {
		opts.Clock = clock
	}
}

// WithPublisher задаёт паблишер событий жизненного цикла.
func WithPublisher(publisher domain.EventPublisher) Option {
	return func(opts *Options) {
		opts.Publisher = publisher
	}
}

// WithMetrics задаёт метрики движка.
func WithMetrics(m *metrics.EngineMetrics) Option {
	return func(opts *Options) {
		opts.Metrics = m
	}
}

// Service — фасад back-office: товары, клиенты и заказы.
// Изменяющие операции сериализуются одним мьютексом; чтения идут через снимки репозиториев.
type Service struct {
	items     domain.ItemRepository
	customers domain.CustomerRepository
	orders    domain.OrderRepository
	addresses domain.AddressRepository
	timeline  domain.TimelineRepository

	itemCodes       codegen.Generator
	membershipCodes codegen.Generator

	publisher domain.EventPublisher
	metrics   *metrics.EngineMetrics
	clock     domain.Clock
	logger    *log.Entry

	mu         sync.Mutex
	lastNumber int64
}

// New собирает сервис и продолжает нумерацию заказов с последнего сохранённого номера.
func New(ctx context.Context, repos Repositories, options ...Option) (*Service, error) {
	if err := repos.validate(); err != nil {
		return nil, err
	}

	var opts Options
	for _, option := range options {
		option(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = log.WithField("component", "backoffice-service")
	}
	if opts.Clock == nil {
		opts.Clock = domain.SystemClock
	}

	s := &Service{
		items:           repos.Items,
		customers:       repos.Customers,
		orders:          repos.Orders,
		addresses:       repos.Addresses,
		timeline:        repos.Timeline,
		itemCodes:       codegen.New(domain.ItemCodePrefix),
		membershipCodes: codegen.New(domain.MembershipCodePrefix),
		publisher:       opts.Publisher,
		metrics:         opts.Metrics,
		clock:           opts.Clock,
		logger:          opts.Logger,
	}

	if err := s.SyncOrderNumber(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// SyncOrderNumber перечитывает наибольший выданный номер заказа из хранилища.
// Номера удалённых заказов тоже учитываются и повторно не выдаются.
func (s *Service) SyncOrderNumber(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	highest, err := s.orders.HighestNumber(ctx)
	if err != nil {
		return persistenceError("load highest order number", err)
	}
	s.lastNumber = max(s.lastNumber, highest)
	return nil
}

// LastOrderNumber возвращает последний выданный номер заказа.
func (s *Service) LastOrderNumber() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastNumber
}

// persistenceError помечает сбой хранилища категорией ErrPersistence.
// Доменные ошибки (не найдено, дубликат) и отмена контекста проходят как есть.
func persistenceError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if domain.IsNotFound(err) || domain.IsDuplicate(err) || domain.IsPersistence(err) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return errors.Join(domain.ErrPersistence, fmt.Errorf("%s: %w", op, err))
}

func validationError(errs []error) error {
	return errors.Join(errs...)
}
