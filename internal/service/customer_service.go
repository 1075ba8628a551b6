package service

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	appErrors "github.com/contacthub/crm-backend/internal/errors"
	"github.com/contacthub/crm-backend/internal/events"
	"github.com/contacthub/crm-backend/internal/model"
	"github.com/contacthub/crm-backend/internal/repository"
)

// Topic customer change events are published on.
const EventsTopic = "customer_events"

// CustomerEvent is the payload published after a successful mutation.
type CustomerEvent struct {
	Event string `json:"event"`
	ID    string `json:"id"`
	Email string `json:"email"`
}

type CustomerService struct {
	Repo     repository.CustomerRepositoryInterface
	Events   events.Publisher
	Logger   zerolog.Logger
	validate *validator.Validate
}

func NewCustomerService(repo repository.CustomerRepositoryInterface, publisher events.Publisher, logger zerolog.Logger) *CustomerService {
	return &CustomerService{
		Repo:     repo,
		Events:   publisher,
		Logger:   logger,
		validate: validator.New(),
	}
}

// ListCustomers returns all customers ordered by name ascending. The result
// is always a slice, possibly empty, never nil.
func (s *CustomerService) ListCustomers() ([]model.Customer, error) {
	return s.Repo.ListAll()
}

// GetCustomer looks up one customer by id.
func (s *CustomerService) GetCustomer(id int) (*model.Customer, error) {
	c, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, appErrors.NewCustomerNotFound(id)
	}
	return c, nil
}

// CreateCustomer validates the draft, rejects duplicate emails and inserts a
// new row. The store assigns id and timestamps.
func (s *CustomerService) CreateCustomer(draft model.CustomerDraft) (*model.Customer, error) {
	if err := s.checkInput(draft); err != nil {
		return nil, err
	}

	existing, err := s.Repo.GetByEmail(draft.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, appErrors.NewDuplicateEmail(draft.Email)
	}

	c := &model.Customer{
		Name:    draft.Name,
		Email:   draft.Email,
		Company: draft.Company,
		Phone:   draft.Phone,
		Status:  draft.Status,
		Notes:   draft.Notes,
	}
	// The unique index on email still applies here; a concurrent create
	// slipping past the pre-check comes back as the same conflict error.
	if err := s.Repo.Create(c); err != nil {
		return nil, err
	}

	s.publish("customer.created", c)
	return c, nil
}

// ReplaceByID replaces the editable fields of the customer with the given id.
// Email and id are not mutated.
func (s *CustomerService) ReplaceByID(id int, upd model.CustomerUpdate) (*model.Customer, error) {
	if err := s.checkInput(upd); err != nil {
		return nil, err
	}

	c := &model.Customer{
		ID:      id,
		Name:    upd.Name,
		Company: upd.Company,
		Phone:   upd.Phone,
		Status:  upd.Status,
		Notes:   upd.Notes,
	}
	if err := s.Repo.Update(c); err != nil {
		return nil, err
	}

	s.publish("customer.updated", c)
	return c, nil
}

// PatchByEmail looks the customer up by the email in the request body and
// updates its editable fields. It never creates a record.
func (s *CustomerService) PatchByEmail(patch model.CustomerPatch) (*model.Customer, error) {
	if err := s.checkInput(patch); err != nil {
		return nil, err
	}

	existing, err := s.Repo.GetByEmail(patch.Email)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, appErrors.NewCustomerNotFoundByEmail(patch.Email)
	}

	c := &model.Customer{
		ID:      existing.ID,
		Name:    patch.Name,
		Company: patch.Company,
		Phone:   patch.Phone,
		Status:  patch.Status,
		Notes:   patch.Notes,
	}
	if err := s.Repo.Update(c); err != nil {
		return nil, err
	}

	s.publish("customer.updated", c)
	return c, nil
}

// DeleteCustomer checks existence first, then removes the row permanently.
func (s *CustomerService) DeleteCustomer(id int) error {
	existing, err := s.Repo.GetByID(id)
	if err != nil {
		return err
	}
	if existing == nil {
		return appErrors.NewCustomerNotFound(id)
	}

	if err := s.Repo.Delete(id); err != nil {
		return err
	}

	s.publish("customer.deleted", existing)
	return nil
}

// checkInput runs struct validation and converts validator failures to the
// taxonomy's validation error, listing the offending fields.
func (s *CustomerService) checkInput(input any) error {
	err := s.validate.Struct(input)
	if err == nil {
		return nil
	}
	if verrs, ok := err.(validator.ValidationErrors); ok {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fe.Field())
		}
		return appErrors.NewValidation(fields)
	}
	return err
}

// publish emits a change event. Publishing is best-effort: a failure is
// logged and never fails the operation that already committed.
func (s *CustomerService) publish(event string, c *model.Customer) {
	if s.Events == nil {
		return
	}
	payload := CustomerEvent{Event: event, ID: strconv.Itoa(c.ID), Email: c.Email}
	if err := s.Events.Publish(EventsTopic, payload); err != nil {
		s.Logger.Warn().Err(err).Str("event", event).Int("customer_id", c.ID).Msg("failed to publish customer event")
	}
}
