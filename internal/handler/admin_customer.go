package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tireweb/tire-shop-api/internal/model"
	"github.com/tireweb/tire-shop-api/internal/repository"
)

// AdminCustomerHandler serves back-office customer management. Deletion
// runs the centralized cascade so no dependent rows survive.
type AdminCustomerHandler struct {
	Customers *repository.CustomerRepo
	Vehicles  *repository.VehicleRepo
}

func NewAdminCustomerHandler(cu *repository.CustomerRepo, v *repository.VehicleRepo) *AdminCustomerHandler {
	return &AdminCustomerHandler{Customers: cu, Vehicles: v}
}

type customerReq struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Gender    string `json:"gender"`
	Birthdate string `json:"birthdate"` // YYYY-MM-DD
	AvatarURL string `json:"avatar_url"`
}

func (r *customerReq) toModel() (model.Customer, string) {
	c := model.Customer{
		FirstName: strings.TrimSpace(r.FirstName),
		LastName:  strings.TrimSpace(r.LastName),
		Email:     strings.TrimSpace(r.Email),
		Phone:     strings.TrimSpace(r.Phone),
		Gender:    strings.TrimSpace(r.Gender),
		AvatarURL: strings.TrimSpace(r.AvatarURL),
	}
	if c.FirstName == "" {
		return c, "first_name required"
	}
	if bd := strings.TrimSpace(r.Birthdate); bd != "" {
		t, err := time.Parse("2006-01-02", bd)
		if err != nil {
			return c, "birthdate must be YYYY-MM-DD"
		}
		c.Birthdate = &t
	}
	return c, ""
}

func customerView(cu model.Customer) echo.Map {
	v := echo.Map{
		"id":         cu.ID,
		"user_id":    cu.UserID,
		"first_name": cu.FirstName,
		"last_name":  cu.LastName,
		"email":      cu.Email,
		"phone":      cu.Phone,
		"gender":     cu.Gender,
		"avatar_url": cu.AvatarURL,
		"created_at": cu.CreatedAt,
	}
	if cu.Birthdate != nil {
		v["birthdate"] = cu.Birthdate.Format("2006-01-02")
	}
	return v
}

// List handles GET /v1/admin/customers?search=.
func (h *AdminCustomerHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	customers, err := h.Customers.List(ctx, c.QueryParam("search"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]echo.Map, 0, len(customers))
	for _, cu := range customers {
		out = append(out, customerView(cu))
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": out})
}

// Get handles GET /v1/admin/customers/:id, including the customer's
// vehicles.
func (h *AdminCustomerHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid customer id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	cu, err := h.Customers.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	vehicles, err := h.Vehicles.ListByCustomer(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	v := customerView(cu)
	v["vehicles"] = vehicles
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": v})
}

// Create handles POST /v1/admin/customers (walk-in customer without a
// login account).
func (h *AdminCustomerHandler) Create(c echo.Context) error {
	var req customerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	cu, msg := req.toModel()
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Customers.Create(ctx, &cu); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create customer failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": customerView(cu)})
}

// Update handles PUT /v1/admin/customers/:id.
func (h *AdminCustomerHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid customer id"})
	}
	var req customerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	cu, msg := req.toModel()
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	cu.ID = id
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Customers.Update(ctx, &cu); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update customer failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": customerView(cu)})
}

// Delete handles DELETE /v1/admin/customers/:id. All dependent rows go
// in one transaction, children first.
func (h *AdminCustomerHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid customer id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	tx, err := h.Customers.DB.BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := h.Customers.DeleteCascadeTx(ctx, tx, id); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete customer failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	committed = true
	return c.NoContent(http.StatusNoContent)
}
