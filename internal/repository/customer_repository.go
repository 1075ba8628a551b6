package repository

import (
	"database/sql"

	"github.com/lib/pq"

	appErrors "github.com/contacthub/crm-backend/internal/errors"
	"github.com/contacthub/crm-backend/internal/model"
)

// uniqueViolation is the Postgres error code raised by the unique index on
// customers(email). It is the authoritative duplicate signal; the service
// pre-check only exists to answer before touching the insert path.
const uniqueViolation = "23505"

// CustomerRepositoryInterface defines methods used by the service
type CustomerRepositoryInterface interface {
	ListAll() ([]model.Customer, error)
	GetByID(id int) (*model.Customer, error)
	GetByEmail(email string) (*model.Customer, error)
	Create(c *model.Customer) error
	Update(c *model.Customer) error
	Delete(id int) error
}

// CustomerRepository is the concrete Postgres implementation
type CustomerRepository struct {
	DB *sql.DB
}

const customerColumns = `id, name, email, company, phone, status, notes, last_contact_date, created_at, updated_at`

func scanCustomer(row interface{ Scan(...any) error }) (*model.Customer, error) {
	var c model.Customer
	err := row.Scan(
		&c.ID, &c.Name, &c.Email, &c.Company, &c.Phone,
		&c.Status, &c.Notes, &c.LastContactDate, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListAll fetches every customer ordered by name ascending.
func (r *CustomerRepository) ListAll() ([]model.Customer, error) {
	query := `
        SELECT ` + customerColumns + `
        FROM customers
        ORDER BY name ASC
    `
	rows, err := r.DB.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	customers := []model.Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return customers, nil
}

// GetByID fetches a customer by ID
func (r *CustomerRepository) GetByID(id int) (*model.Customer, error) {
	query := `
        SELECT ` + customerColumns + `
        FROM customers
        WHERE id = $1
    `
	c, err := scanCustomer(r.DB.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // not found
		}
		return nil, err
	}
	return c, nil
}

// GetByEmail fetches a customer by email
func (r *CustomerRepository) GetByEmail(email string) (*model.Customer, error) {
	query := `
        SELECT ` + customerColumns + `
        FROM customers
        WHERE email = $1
    `
	c, err := scanCustomer(r.DB.QueryRow(query, email))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // not found
		}
		return nil, err
	}
	return c, nil
}

// Create inserts a new customer. The store assigns id, last_contact_date,
// created_at and updated_at; they are scanned back into c.
func (r *CustomerRepository) Create(c *model.Customer) error {
	query := `
        INSERT INTO customers (name, email, company, phone, status, notes)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, last_contact_date, created_at, updated_at
    `
	err := r.DB.QueryRow(query, c.Name, c.Email, c.Company, c.Phone, c.Status, c.Notes).
		Scan(&c.ID, &c.LastContactDate, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && string(pqErr.Code) == uniqueViolation {
			return appErrors.NewDuplicateEmail(c.Email)
		}
		return err
	}
	return nil
}

// Update replaces the editable fields of the row identified by c.ID and
// refreshes updated_at. Email is never written on this path. The full row,
// server timestamps included, is scanned back into c.
func (r *CustomerRepository) Update(c *model.Customer) error {
	query := `
        UPDATE customers
        SET name=$1, company=$2, phone=$3, status=$4, notes=$5, updated_at=NOW()
        WHERE id=$6
        RETURNING ` + customerColumns + `
	`
	updated, err := scanCustomer(r.DB.QueryRow(query, c.Name, c.Company, c.Phone, c.Status, c.Notes, c.ID))
	if err != nil {
		if err == sql.ErrNoRows {
			return appErrors.NewCustomerNotFound(c.ID)
		}
		return err
	}
	*c = *updated
	return nil
}

// Delete removes the row permanently. Existence is checked by the caller.
func (r *CustomerRepository) Delete(id int) error {
	_, err := r.DB.Exec(`DELETE FROM customers WHERE id = $1`, id)
	return err
}

var _ CustomerRepositoryInterface = (*CustomerRepository)(nil)
