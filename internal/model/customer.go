package model

import (
	"strconv"
	"time"
)

// Customer statuses persisted in the store.
const (
	StatusLead     = "Lead"
	StatusActive   = "Active"
	StatusInactive = "Inactive"
)

// Customer is the storage shape of one row in the customers table.
type Customer struct {
	ID              int       `db:"id"`
	Name            string    `db:"name"`
	Email           string    `db:"email"`
	Company         string    `db:"company"`
	Phone           *string   `db:"phone"`
	Status          string    `db:"status"`
	Notes           *string   `db:"notes"`
	LastContactDate time.Time `db:"last_contact_date"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

// CustomerResponse is the external shape. Clients always see the id as a
// string; the stored type stays numeric.
type CustomerResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Company         string    `json:"company"`
	Phone           *string   `json:"phone,omitempty"`
	Status          string    `json:"status"`
	Notes           *string   `json:"notes,omitempty"`
	LastContactDate time.Time `json:"lastContactDate"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Response converts a stored customer to its external representation.
func (c *Customer) Response() CustomerResponse {
	return CustomerResponse{
		ID:              strconv.Itoa(c.ID),
		Name:            c.Name,
		Email:           c.Email,
		Company:         c.Company,
		Phone:           c.Phone,
		Status:          c.Status,
		Notes:           c.Notes,
		LastContactDate: c.LastContactDate,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

// CustomerDraft is a client-submitted candidate for creation.
type CustomerDraft struct {
	Name    string  `json:"name" validate:"required"`
	Email   string  `json:"email" validate:"required"`
	Company string  `json:"company" validate:"required"`
	Phone   *string `json:"phone"`
	Status  string  `json:"status" validate:"required,oneof=Lead Active Inactive"`
	Notes   *string `json:"notes"`
}

// CustomerUpdate replaces the editable fields of an existing customer.
// Email and id are immutable on this path.
type CustomerUpdate struct {
	Name    string  `json:"name" validate:"required"`
	Company string  `json:"company" validate:"required"`
	Phone   *string `json:"phone"`
	Status  string  `json:"status" validate:"required,oneof=Lead Active Inactive"`
	Notes   *string `json:"notes"`
}

// CustomerPatch updates an existing customer looked up by email. It can
// never create a record.
type CustomerPatch struct {
	Email   string  `json:"email" validate:"required"`
	Name    string  `json:"name" validate:"required"`
	Company string  `json:"company" validate:"required"`
	Phone   *string `json:"phone"`
	Status  string  `json:"status" validate:"required,oneof=Lead Active Inactive"`
	Notes   *string `json:"notes"`
}
