package service_test

import (
	"sort"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/contacthub/crm-backend/internal/errors"
	"github.com/contacthub/crm-backend/internal/model"
	"github.com/contacthub/crm-backend/internal/service"
)

// fakeCustomerRepo is an in-memory stand-in for the Postgres repository. It
// mirrors the store contract: unique email, server-assigned id and
// timestamps, name-sorted listing.
type fakeCustomerRepo struct {
	nextID    int
	customers map[int]model.Customer
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: map[int]model.Customer{}}
}

func (f *fakeCustomerRepo) ListAll() ([]model.Customer, error) {
	out := []model.Customer{}
	for _, c := range f.customers {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeCustomerRepo) GetByID(id int) (*model.Customer, error) {
	c, ok := f.customers[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (f *fakeCustomerRepo) GetByEmail(email string) (*model.Customer, error) {
	for _, c := range f.customers {
		if c.Email == email {
			c := c
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeCustomerRepo) Create(c *model.Customer) error {
	// Unique index on email.
	for _, existing := range f.customers {
		if existing.Email == c.Email {
			return appErrors.NewDuplicateEmail(c.Email)
		}
	}
	f.nextID++
	c.ID = f.nextID
	now := time.Now()
	c.LastContactDate = now
	c.CreatedAt = now
	c.UpdatedAt = now
	f.customers[c.ID] = *c
	return nil
}

func (f *fakeCustomerRepo) Update(c *model.Customer) error {
	existing, ok := f.customers[c.ID]
	if !ok {
		return appErrors.NewCustomerNotFound(c.ID)
	}
	c.Email = existing.Email
	c.LastContactDate = existing.LastContactDate
	c.CreatedAt = existing.CreatedAt
	c.UpdatedAt = time.Now()
	f.customers[c.ID] = *c
	return nil
}

func (f *fakeCustomerRepo) Delete(id int) error {
	delete(f.customers, id)
	return nil
}

func newTestService() (*service.CustomerService, *fakeCustomerRepo) {
	repo := newFakeCustomerRepo()
	return service.NewCustomerService(repo, nil, zerolog.Nop()), repo
}

func strPtr(s string) *string { return &s }

func TestCreateThenGetReturnsSameRecord(t *testing.T) {
	svc, _ := newTestService()

	created, err := svc.CreateCustomer(model.CustomerDraft{
		Name:    "Jane Smith",
		Email:   "jane@techcorp.com",
		Company: "TechCorp",
		Phone:   strPtr("555-0101"),
		Status:  model.StatusActive,
		Notes:   strPtr("key account"),
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())
	assert.False(t, created.UpdatedAt.IsZero())
	assert.False(t, created.LastContactDate.IsZero())

	got, err := svc.GetCustomer(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestCreateDuplicateEmailConflicts(t *testing.T) {
	svc, repo := newTestService()

	draft := model.CustomerDraft{
		Name:    "Jane Smith",
		Email:   "jane@techcorp.com",
		Company: "TechCorp",
		Status:  model.StatusActive,
	}
	_, err := svc.CreateCustomer(draft)
	require.NoError(t, err)

	draft.Name = "Someone Else"
	_, err = svc.CreateCustomer(draft)
	require.Error(t, err)
	assert.True(t, appErrors.IsConflict(err))
	assert.Len(t, repo.customers, 1)
}

func TestCreateMissingFieldsRejected(t *testing.T) {
	svc, repo := newTestService()

	_, err := svc.CreateCustomer(model.CustomerDraft{Name: "No Email"})
	require.Error(t, err)
	assert.True(t, appErrors.IsValidation(err))
	assert.Empty(t, repo.customers)
}

func TestCreateUnknownStatusRejected(t *testing.T) {
	svc, repo := newTestService()

	_, err := svc.CreateCustomer(model.CustomerDraft{
		Name:    "Jane Smith",
		Email:   "jane@techcorp.com",
		Company: "TechCorp",
		Status:  "Archived",
	})
	require.Error(t, err)
	assert.True(t, appErrors.IsValidation(err))
	assert.Empty(t, repo.customers)
}

func TestListSortedByName(t *testing.T) {
	svc, _ := newTestService()

	for _, name := range []string{"Zeta", "Alpha", "Mid"} {
		_, err := svc.CreateCustomer(model.CustomerDraft{
			Name:    name,
			Email:   name + "@example.com",
			Company: "Example",
			Status:  model.StatusLead,
		})
		require.NoError(t, err)
	}

	customers, err := svc.ListCustomers()
	require.NoError(t, err)
	require.Len(t, customers, 3)
	assert.Equal(t, "Alpha", customers[0].Name)
	assert.Equal(t, "Mid", customers[1].Name)
	assert.Equal(t, "Zeta", customers[2].Name)
}

func TestDeleteThenGetNotFound(t *testing.T) {
	svc, _ := newTestService()

	created, err := svc.CreateCustomer(model.CustomerDraft{
		Name:    "Jane Smith",
		Email:   "jane@techcorp.com",
		Company: "TechCorp",
		Status:  model.StatusActive,
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteCustomer(created.ID))

	_, err = svc.GetCustomer(created.ID)
	require.Error(t, err)
	assert.True(t, appErrors.IsNotFound(err))
}

func TestDeleteMissingNotFound(t *testing.T) {
	svc, _ := newTestService()

	err := svc.DeleteCustomer(42)
	require.Error(t, err)
	assert.True(t, appErrors.IsNotFound(err))
}

func TestReplaceByIDUpdatesEditableFields(t *testing.T) {
	svc, _ := newTestService()

	created, err := svc.CreateCustomer(model.CustomerDraft{
		Name:    "Jane Smith",
		Email:   "jane@techcorp.com",
		Company: "TechCorp",
		Status:  model.StatusLead,
	})
	require.NoError(t, err)

	updated, err := svc.ReplaceByID(created.ID, model.CustomerUpdate{
		Name:    "Jane Smith-Jones",
		Company: "TechCorp Global",
		Phone:   strPtr("555-0199"),
		Status:  model.StatusActive,
	})
	require.NoError(t, err)
	assert.Equal(t, "Jane Smith-Jones", updated.Name)
	assert.Equal(t, model.StatusActive, updated.Status)
	// Email and creation time stay put.
	assert.Equal(t, created.Email, updated.Email)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
}

func TestReplaceByIDMissingLeavesStoreUnchanged(t *testing.T) {
	svc, repo := newTestService()

	created, err := svc.CreateCustomer(model.CustomerDraft{
		Name:    "Jane Smith",
		Email:   "jane@techcorp.com",
		Company: "TechCorp",
		Status:  model.StatusActive,
	})
	require.NoError(t, err)

	_, err = svc.ReplaceByID(created.ID+1, model.CustomerUpdate{
		Name:    "Ghost",
		Company: "Nowhere",
		Status:  model.StatusLead,
	})
	require.Error(t, err)
	assert.True(t, appErrors.IsNotFound(err))

	require.Len(t, repo.customers, 1)
	assert.Equal(t, *created, repo.customers[created.ID])
}

func TestPatchByEmailUpdatesExisting(t *testing.T) {
	svc, _ := newTestService()

	created, err := svc.CreateCustomer(model.CustomerDraft{
		Name:    "Jane Smith",
		Email:   "jane@techcorp.com",
		Company: "TechCorp",
		Status:  model.StatusLead,
	})
	require.NoError(t, err)

	updated, err := svc.PatchByEmail(model.CustomerPatch{
		Email:   "jane@techcorp.com",
		Name:    "Jane Smith",
		Company: "TechCorp",
		Status:  model.StatusActive,
		Notes:   strPtr("converted"),
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, model.StatusActive, updated.Status)
}

func TestPatchByEmailUnknownEmailNotFound(t *testing.T) {
	svc, repo := newTestService()

	_, err := svc.PatchByEmail(model.CustomerPatch{
		Email:   "nobody@example.com",
		Name:    "Nobody",
		Company: "Nowhere",
		Status:  model.StatusLead,
	})
	require.Error(t, err)
	assert.True(t, appErrors.IsNotFound(err))
	assert.Empty(t, repo.customers)
}
