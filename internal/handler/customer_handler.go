package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	appErrors "github.com/contacthub/crm-backend/internal/errors"
	"github.com/contacthub/crm-backend/internal/model"
	"github.com/contacthub/crm-backend/internal/service"
)

// CustomerHandler holds the dependencies for customer-related HTTP handlers
type CustomerHandler struct {
	Service *service.CustomerService
	Logger  zerolog.Logger
}

func NewCustomerHandler(svc *service.CustomerService, logger zerolog.Logger) *CustomerHandler {
	return &CustomerHandler{Service: svc, Logger: logger}
}

// ListCustomers returns every customer, sorted by name. Filter query
// parameters are accepted but ignored; filtering happens client-side.
func (h *CustomerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.Service.ListCustomers()
	if err != nil {
		h.writeError(w, err, "Failed to fetch customers")
		return
	}

	// Always an array, even when empty.
	responses := make([]model.CustomerResponse, 0, len(customers))
	for i := range customers {
		responses = append(responses, customers[i].Response())
	}
	writeJSON(w, http.StatusOK, responses)
}

// GetCustomer returns a single customer by id.
func (h *CustomerHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := h.customerID(w, r)
	if !ok {
		return
	}

	customer, err := h.Service.GetCustomer(id)
	if err != nil {
		h.writeError(w, err, "Failed to fetch customer")
		return
	}
	writeJSON(w, http.StatusOK, customer.Response())
}

// CreateCustomer validates the draft and inserts a new customer.
func (h *CustomerHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var draft model.CustomerDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	customer, err := h.Service.CreateCustomer(draft)
	if err != nil {
		h.writeError(w, err, "Failed to create customer")
		return
	}
	writeJSON(w, http.StatusCreated, customer.Response())
}

// ReplaceCustomer replaces the editable fields of the customer with the
// given id. Email and id are immutable.
func (h *CustomerHandler) ReplaceCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := h.customerID(w, r)
	if !ok {
		return
	}

	var upd model.CustomerUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	customer, err := h.Service.ReplaceByID(id, upd)
	if err != nil {
		h.writeError(w, err, "Failed to update customer")
		return
	}
	writeJSON(w, http.StatusOK, customer.Response())
}

// PatchCustomerByEmail updates the customer whose email matches the request
// body. This path serves callers that only know the email; it never creates.
func (h *CustomerHandler) PatchCustomerByEmail(w http.ResponseWriter, r *http.Request) {
	var patch model.CustomerPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	customer, err := h.Service.PatchByEmail(patch)
	if err != nil {
		h.writeError(w, err, "Failed to update customer")
		return
	}
	writeJSON(w, http.StatusOK, customer.Response())
}

// DeleteCustomer removes a customer permanently.
func (h *CustomerHandler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := h.customerID(w, r)
	if !ok {
		return
	}

	if err := h.Service.DeleteCustomer(id); err != nil {
		h.writeError(w, err, "Failed to delete customer")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// customerID parses the id path parameter. Ids are exchanged as strings but
// stored numerically; a value that cannot be numeric matches no record.
func (h *CustomerHandler) customerID(w http.ResponseWriter, r *http.Request) (int, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Customer not found"})
		return 0, false
	}
	return id, true
}

// writeError maps the error taxonomy to status codes. Store failures are
// logged with their cause and collapsed to the generic message; internal
// details never reach the caller.
func (h *CustomerHandler) writeError(w http.ResponseWriter, err error, generic string) {
	switch {
	case appErrors.IsValidation(err):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing required fields"})
	case appErrors.IsConflict(err):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "A customer with this email already exists"})
	case appErrors.IsNotFound(err):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Customer not found"})
	default:
		h.Logger.Error().Err(err).Msg(generic)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": generic})
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
