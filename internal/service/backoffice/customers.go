package backoffice

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/backoffice/internal/codegen"
	"github.com/vladislavdragonenkov/backoffice/internal/domain"
	"github.com/vladislavdragonenkov/backoffice/internal/metrics"
)

// CustomerInput — данные для регистрации клиента.
// Для premium пустые AnnualFee и ShippingDiscountRate означают значения по умолчанию (30.00 и 0.20).
type CustomerInput struct {
	Name    string
	TaxID   string
	Email   string
	Address domain.Address

	Premium              bool
	AnnualFee            decimal.NullDecimal
	ShippingDiscountRate decimal.NullDecimal
}

// CustomerUpdate — изменяемые поля клиента. Пустые поля оставляют текущее значение.
// NIF и условия членства не меняются.
type CustomerUpdate struct {
	Name    string
	Email   string
	Address domain.Address
}

// AddCustomer регистрирует клиента. NIF уникален; premium-клиент получает код членства из NIF.
func (s *Service) AddCustomer(ctx context.Context, in CustomerInput) (domain.Customer, error) {
	customer := domain.NewStandardCustomer(in.Name, in.TaxID, in.Email, in.Address)

	s.mu.Lock()
	defer s.mu.Unlock()

	if customer.TaxID != "" {
		_, err := s.customers.FindOne(ctx, customer.TaxID)
		switch {
		case err == nil:
			return domain.Customer{}, fmt.Errorf("tax id %q: %w", customer.TaxID, domain.ErrDuplicateTaxID)
		case !domain.IsNotFound(err):
			return domain.Customer{}, persistenceError("find customer", err)
		}
	}

	if in.Premium {
		membership, err := s.newMembership(ctx, customer.TaxID, in)
		if err != nil {
			return domain.Customer{}, err
		}
		customer.Kind = domain.CustomerKindPremium
		customer.Membership = membership
	}

	if errs := customer.Validate(); len(errs) > 0 {
		return domain.Customer{}, validationError(errs)
	}

	if !customer.Address.IsZero() {
		address, err := s.addresses.Save(ctx, customer.Address)
		if err != nil {
			return domain.Customer{}, persistenceError("save address", err)
		}
		customer.Address = address
	}

	saved, err := s.customers.Save(ctx, customer)
	if err != nil {
		s.dropAddress(ctx, customer.Address)
		return domain.Customer{}, persistenceError("save customer", err)
	}

	s.logger.WithFields(log.Fields{
		"tax_id": saved.TaxID,
		"kind":   saved.Kind,
	}).Info("customer registered")

	s.metrics.RecordCustomerRegistered()
	s.publish(ctx, domain.EventCustomerRegistered, saved.TaxID, customerPayload(saved))

	return saved, nil
}

func (s *Service) newMembership(ctx context.Context, taxID string, in CustomerInput) (domain.Membership, error) {
	existing, err := s.customers.FindAll(ctx)
	if err != nil {
		return domain.Membership{}, persistenceError("list customers", err)
	}

	taken := codegen.NewSet()
	for c := range existing.Values() {
		if c.Membership.Code != "" {
			taken[c.Membership.Code] = struct{}{}
		}
	}

	code, err := s.membershipCodes.Next(taxID, taken)
	if err != nil {
		return domain.Membership{}, fmt.Errorf("generate membership code: %w", err)
	}

	membership := domain.DefaultMembership(code)
	if in.AnnualFee.Valid {
		membership.AnnualFee = in.AnnualFee.Decimal
	}
	if in.ShippingDiscountRate.Valid {
		membership.ShippingDiscountRate = in.ShippingDiscountRate.Decimal
	}
	return membership, nil
}

// dropAddress откатывает адрес, сохранённый до неудачной записи клиента.
func (s *Service) dropAddress(ctx context.Context, address domain.Address) {
	if address.ID == 0 {
		return
	}
	if err := s.addresses.Delete(ctx, address.ID); err != nil && !domain.IsNotFound(err) {
		s.logger.WithError(err).WithField("address_id", address.ID).Warn("failed to delete orphaned address")
	}
}

// restoreAddress возвращает адрес к состоянию до неудачного обновления клиента:
// прежний адрес перезаписывается, а созданный впервые удаляется.
func (s *Service) restoreAddress(ctx context.Context, previous, written domain.Address) {
	if previous.ID == 0 {
		s.dropAddress(ctx, written)
		return
	}
	if _, err := s.addresses.Save(ctx, previous); err != nil {
		s.logger.WithError(err).WithField("address_id", previous.ID).Warn("failed to restore customer address")
	}
}

// UpdateCustomer меняет имя, email или адрес клиента. Адрес пишется после валидации
// и откатывается, если клиента сохранить не удалось.
func (s *Service) UpdateCustomer(ctx context.Context, taxID string, upd CustomerUpdate) (domain.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	customer, err := s.customers.FindOne(ctx, taxID)
	if err != nil {
		return domain.Customer{}, persistenceError("find customer", err)
	}

	previous := customer.Address
	if name := strings.TrimSpace(upd.Name); name != "" {
		customer.Name = name
	}
	if email := strings.TrimSpace(upd.Email); email != "" {
		customer.Email = email
	}

	if errs := customer.Validate(); len(errs) > 0 {
		return domain.Customer{}, validationError(errs)
	}

	if !upd.Address.IsZero() {
		address := upd.Address.Normalize()
		address.ID = previous.ID
		saved, err := s.addresses.Save(ctx, address)
		if err != nil {
			return domain.Customer{}, persistenceError("save address", err)
		}
		customer.Address = saved
	}

	saved, err := s.customers.Save(ctx, customer)
	if err != nil {
		if !upd.Address.IsZero() {
			s.restoreAddress(ctx, previous, customer.Address)
		}
		return domain.Customer{}, persistenceError("save customer", err)
	}

	s.logger.WithField("tax_id", saved.TaxID).Info("customer updated")
	s.publish(ctx, domain.EventCustomerUpdated, saved.TaxID, customerPayload(saved))
	return saved, nil
}

// ListCustomers возвращает клиентов заданного типа; пустой kind — всех.
func (s *Service) ListCustomers(ctx context.Context, kind domain.CustomerKind) ([]domain.Customer, error) {
	if kind != "" && !kind.Valid() {
		return nil, domain.ErrCustomerKindInvalid
	}

	all, err := s.customers.FindAll(ctx)
	if err != nil {
		return nil, persistenceError("list customers", err)
	}

	result := make([]domain.Customer, 0, all.Len())
	for c := range all.Values() {
		if kind == "" || c.Kind == kind {
			result = append(result, c)
		}
	}
	return result, nil
}

// FindCustomer ищет клиента по NIF.
func (s *Service) FindCustomer(ctx context.Context, taxID string) (domain.Customer, error) {
	customer, err := s.customers.FindOne(ctx, taxID)
	if err != nil {
		return domain.Customer{}, persistenceError("find customer", err)
	}
	return customer, nil
}

// DeleteCustomer удаляет клиента вместе с адресом, если у него нет заказов.
func (s *Service) DeleteCustomer(ctx context.Context, taxID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	customer, err := s.customers.FindOne(ctx, taxID)
	if err != nil {
		return persistenceError("find customer", err)
	}

	blocking, err := s.referencingOrders(ctx, func(o domain.Order) bool { return o.ReferencesCustomer(customer.TaxID) })
	if err != nil {
		return err
	}
	if len(blocking) > 0 {
		s.metrics.RecordDeletionRejected("customer", metrics.RejectReferenced)
		return &domain.ReferenceError{Entity: "customer", Key: customer.TaxID, Orders: blocking}
	}

	if err := s.customers.Delete(ctx, customer.ID); err != nil {
		return persistenceError("delete customer", err)
	}
	if customer.Address.ID != 0 {
		if err := s.addresses.Delete(ctx, customer.Address.ID); err != nil && !domain.IsNotFound(err) {
			return persistenceError("delete customer address", err)
		}
	}

	s.logger.WithField("tax_id", customer.TaxID).Info("customer deleted")
	s.publish(ctx, domain.EventCustomerDeleted, customer.TaxID, customerPayload(customer))
	return nil
}
