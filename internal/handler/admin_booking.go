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

// AdminBookingHandler serves the staff-facing booking workflow. It
// reuses the shared transaction logic so walk-in bookings go through
// the same slot checks as customer ones.
type AdminBookingHandler struct {
	Shared   *BookingHandler
	Bookings *repository.BookingRepo
}

func NewAdminBookingHandler(shared *BookingHandler) *AdminBookingHandler {
	if shared == nil {
		panic("handler: nil shared booking handler")
	}
	return &AdminBookingHandler{Shared: shared, Bookings: shared.Bookings}
}

type adminBookingReq struct {
	CustomerID uint64 `json:"customer_id"`
	bookingForm
}

type statusReq struct {
	Status string `json:"status"`
}

// List handles GET /v1/admin/bookings with status, date range, search
// and paging filters.
func (h *AdminBookingHandler) List(c echo.Context) error {
	filter := repository.BookingFilter{
		Status:   strings.TrimSpace(c.QueryParam("status")),
		DateFrom: strings.TrimSpace(c.QueryParam("date_from")),
		DateTo:   strings.TrimSpace(c.QueryParam("date_to")),
		Search:   strings.TrimSpace(c.QueryParam("search")),
		Page:     queryInt(c, "page", 1),
		PerPage:  queryInt(c, "per_page", 20),
	}
	if filter.Status != "" {
		st, err := model.ParseBookingStatus(filter.Status)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
		}
		filter.Status = string(st)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	rows, total, err := h.Bookings.ListForAdmin(ctx, filter)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    rows,
		"meta": echo.Map{
			"total":    total,
			"page":     filter.Page,
			"per_page": filter.PerPage,
		},
	})
}

// Get handles GET /v1/admin/bookings/:id.
func (h *AdminBookingHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	det, err := h.Bookings.GetDetail(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": det})
}

// Create handles POST /v1/admin/bookings (booking on behalf of a
// customer, e.g. phone or walk-in).
func (h *AdminBookingHandler) Create(c echo.Context) error {
	var req adminBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.CustomerID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "customer_id required"})
	}
	if err := req.normalize(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if _, err := h.Shared.Customers.GetByID(ctx, req.CustomerID); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	id, err := h.Shared.createBooking(ctx, req.CustomerID, &req.bookingForm)
	if err != nil {
		return bookingErrStatus(c, err)
	}
	det, err := h.Bookings.GetDetail(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load booking failed"})
	}
	h.Shared.publishConfirmed(det)
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": det})
}

// Update handles PUT /v1/admin/bookings/:id. Staff may edit any
// booking, so the ownership check is skipped.
func (h *AdminBookingHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var form bookingForm
	if err := c.Bind(&form); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := form.normalize(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if err := h.Shared.replaceBooking(ctx, id, 0, &form); err != nil {
		return bookingErrStatus(c, err)
	}
	det, err := h.Bookings.GetDetail(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load booking failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": det})
}

// UpdateStatus handles PATCH /v1/admin/bookings/:id/status. The status
// value is one of the three known states; anything else is rejected.
func (h *AdminBookingHandler) UpdateStatus(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req statusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	st, err := model.ParseBookingStatus(req.Status)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Bookings.UpdateStatus(ctx, id, st); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update status failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{
		"booking_id": id,
		"status":     string(st),
		"status_en":  st.English(),
	}})
}

// Delete handles DELETE /v1/admin/bookings/:id. Items, options and
// tire rows go with the booking in one transaction.
func (h *AdminBookingHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	tx, err := h.Bookings.DB.BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := h.Bookings.DeleteCascadeTx(ctx, tx, id); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete booking failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	committed = true
	return c.NoContent(http.StatusNoContent)
}
