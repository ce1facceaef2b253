package handler

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tireweb/tire-shop-api/internal/model"
	"github.com/tireweb/tire-shop-api/internal/queue"
	"github.com/tireweb/tire-shop-api/internal/repository"
	queue_publisher "github.com/tireweb/tire-shop-api/internal/service"
)

// BookingHandler serves the customer booking workflow. Every write runs
// inside one transaction: vehicle resolution, slot capacity check, the
// booking header and all dependent rows commit or roll back together.
type BookingHandler struct {
	Bookings   *repository.BookingRepo
	Customers  *repository.CustomerRepo
	Vehicles   *repository.VehicleRepo
	Services   *repository.ServiceRepo
	Brands     *repository.BrandRepo
	TireModels *repository.TireModelRepo
}

func NewBookingHandler(b *repository.BookingRepo, cu *repository.CustomerRepo, v *repository.VehicleRepo,
	s *repository.ServiceRepo, br *repository.BrandRepo, tm *repository.TireModelRepo) *BookingHandler {
	if b == nil || cu == nil || v == nil || s == nil || br == nil || tm == nil {
		panic("nil repository passed to NewBookingHandler")
	}
	return &BookingHandler{Bookings: b, Customers: cu, Vehicles: v, Services: s, Brands: br, TireModels: tm}
}

// resolveVehicleTx turns the form's vehicle section into a vehicle id
// within the transaction. An existing id is verified to belong to the
// customer; a plate is matched against the customer's vehicles and reused
// when found, otherwise a new vehicle row is inserted with the car brand
// name resolved from the lookup table. With updateExisting set, a reused
// vehicle's descriptor fields are rewritten from the form. A form with no
// usable vehicle information fails with ErrVehicleRequired.
func (h *BookingHandler) resolveVehicleTx(ctx context.Context, tx *sql.Tx, customerID uint64, form *bookingForm, updateExisting bool) (uint64, error) {
	if form.Vehicle.VehicleID != 0 {
		v, err := h.Vehicles.GetByID(ctx, form.Vehicle.VehicleID)
		if err != nil {
			if err == sql.ErrNoRows {
				return 0, repository.ErrVehicleRequired
			}
			return 0, err
		}
		if v.CustomerID != customerID {
			return 0, repository.ErrForbidden
		}
		if updateExisting {
			if err := h.applyVehicleFormTx(ctx, tx, &v, form); err != nil {
				return 0, err
			}
		}
		return v.ID, nil
	}
	if form.Vehicle.LicensePlate == "" {
		return 0, repository.ErrVehicleRequired
	}
	if existing, err := h.Vehicles.FindByPlateTx(ctx, tx, customerID, form.Vehicle.LicensePlate, form.Vehicle.LicenseProvince); err == nil {
		if updateExisting {
			if err := h.applyVehicleFormTx(ctx, tx, &existing, form); err != nil {
				return 0, err
			}
		}
		return existing.ID, nil
	} else if err != sql.ErrNoRows {
		return 0, err
	}
	brandName := ""
	if form.Vehicle.CarBrandID != 0 {
		name, err := h.Brands.CarBrandNameTx(ctx, tx, form.Vehicle.CarBrandID)
		if err != nil {
			return 0, err
		}
		brandName = name
	}
	v := model.Vehicle{
		CustomerID:      customerID,
		EngineTypeName:  form.Vehicle.EngineTypeName,
		LicensePlate:    form.Vehicle.LicensePlate,
		LicenseProvince: form.Vehicle.LicenseProvince,
		BrandName:       brandName,
		ModelName:       form.Vehicle.ModelName,
		Color:           form.Vehicle.Color,
		ProductionYear:  form.Vehicle.ProductionYear,
	}
	if err := h.Vehicles.CreateTx(ctx, tx, &v); err != nil {
		return 0, err
	}
	return v.ID, nil
}

// applyVehicleFormTx overwrites a vehicle's descriptor fields with the
// values the form carries and persists the row when anything changed.
// Empty form fields leave the stored value alone.
func (h *BookingHandler) applyVehicleFormTx(ctx context.Context, tx *sql.Tx, v *model.Vehicle, form *bookingForm) error {
	changed := false
	set := func(dst *string, val string) {
		if val != "" && val != *dst {
			*dst = val
			changed = true
		}
	}
	set(&v.LicensePlate, form.Vehicle.LicensePlate)
	set(&v.LicenseProvince, form.Vehicle.LicenseProvince)
	set(&v.EngineTypeName, form.Vehicle.EngineTypeName)
	set(&v.ModelName, form.Vehicle.ModelName)
	set(&v.Color, form.Vehicle.Color)
	if form.Vehicle.ProductionYear != 0 && form.Vehicle.ProductionYear != v.ProductionYear {
		v.ProductionYear = form.Vehicle.ProductionYear
		changed = true
	}
	if form.Vehicle.CarBrandID != 0 {
		name, err := h.Brands.CarBrandNameTx(ctx, tx, form.Vehicle.CarBrandID)
		if err != nil {
			return err
		}
		set(&v.BrandName, name)
	}
	if !changed {
		return nil
	}
	return h.Vehicles.UpdateTx(ctx, tx, v)
}

// resolveAxleTx snapshots one axle's catalog names for service_tires.
func (h *BookingHandler) resolveAxleTx(ctx context.Context, tx *sql.Tx, spec *tireSpec) (axleTires, error) {
	var a axleTires
	if spec == nil {
		return a, nil
	}
	a.Size = spec.Size
	a.DOTLeft = spec.DOTLeft
	a.DOTRight = spec.DOTRight
	if spec.BrandID != 0 {
		name, err := h.Brands.BrandNameTx(ctx, tx, spec.BrandID)
		if err != nil {
			return a, err
		}
		a.Brand = name
	}
	if spec.ModelID != 0 {
		name, err := h.TireModels.ModelNameTx(ctx, tx, spec.ModelID)
		if err != nil {
			return a, err
		}
		a.Model = name
	}
	return a, nil
}

// writeItemsTx inserts booking items, their option rows and the four
// service tire rows for a booking whose dependent rows are absent.
func (h *BookingHandler) writeItemsTx(ctx context.Context, tx *sql.Tx, bookingID uint64, form *bookingForm) error {
	for _, sel := range form.Services {
		ok, err := h.Services.ExistsTx(ctx, tx, sel.ServiceID)
		if err != nil {
			return err
		}
		if !ok {
			return repository.ErrConflict
		}
		item := model.BookingItem{BookingID: bookingID, ServiceID: sel.ServiceID, Quantity: 1}
		if err := h.Bookings.CreateItemTx(ctx, tx, &item); err != nil {
			return err
		}
		valid := make([]uint64, 0, len(sel.OptionIDs))
		for _, oid := range sel.OptionIDs {
			belongs, err := h.Services.OptionBelongsTx(ctx, tx, sel.ServiceID, oid)
			if err != nil {
				return err
			}
			if belongs {
				valid = append(valid, oid)
			}
		}
		if err := h.Bookings.CreateItemOptionsTx(ctx, tx, item.ID, valid); err != nil {
			return err
		}
	}
	front, err := h.resolveAxleTx(ctx, tx, form.FrontTire)
	if err != nil {
		return err
	}
	rear, err := h.resolveAxleTx(ctx, tx, form.RearTire)
	if err != nil {
		return err
	}
	return h.Bookings.CreateServiceTiresTx(ctx, tx, assembleServiceTires(bookingID, front, rear))
}

// createBooking runs the full create workflow for a customer and returns
// the new booking id.
func (h *BookingHandler) createBooking(ctx context.Context, customerID uint64, form *bookingForm) (uint64, error) {
	if !form.hasVehicleInfo() {
		return 0, repository.ErrVehicleRequired
	}
	tx, err := h.Bookings.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	taken, err := h.Bookings.CountBySlotTx(ctx, tx, form.ServiceDate, form.ServiceTime, 0)
	if err != nil {
		return 0, err
	}
	if taken >= model.SlotCapacity {
		return 0, repository.ErrSlotFull
	}

	vehicleID, err := h.resolveVehicleTx(ctx, tx, customerID, form, false)
	if err != nil {
		return 0, err
	}

	b := model.Booking{
		CustomerID:  customerID,
		VehicleID:   vehicleID,
		ServiceDate: form.ServiceDate,
		ServiceTime: form.ServiceTime,
		Status:      model.StatusPending,
		Note:        form.Note,
	}
	if err := h.Bookings.CreateTx(ctx, tx, &b); err != nil {
		return 0, err
	}
	if err := h.writeItemsTx(ctx, tx, b.ID, form); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true
	return b.ID, nil
}

// replaceBooking rewrites an existing booking from the submitted form:
// header and vehicle updated, dependent rows deleted and re-inserted.
// When enforceCustomerID is non-zero the booking must belong to that
// customer.
func (h *BookingHandler) replaceBooking(ctx context.Context, bookingID, enforceCustomerID uint64, form *bookingForm) error {
	tx, err := h.Bookings.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	b, err := h.Bookings.GetHeaderTx(ctx, tx, bookingID)
	if err != nil {
		return err
	}
	if enforceCustomerID != 0 && b.CustomerID != enforceCustomerID {
		return repository.ErrForbidden
	}

	if b.Status != model.StatusCancelled {
		taken, err := h.Bookings.CountBySlotTx(ctx, tx, form.ServiceDate, form.ServiceTime, bookingID)
		if err != nil {
			return err
		}
		if taken >= model.SlotCapacity {
			return repository.ErrSlotFull
		}
	}

	vehicleID := b.VehicleID
	if form.hasVehicleInfo() {
		vehicleID, err = h.resolveVehicleTx(ctx, tx, b.CustomerID, form, true)
		if err != nil {
			return err
		}
	}

	b.VehicleID = vehicleID
	b.ServiceDate = form.ServiceDate
	b.ServiceTime = form.ServiceTime
	b.Note = form.Note
	if err := h.Bookings.UpdateTx(ctx, tx, &b); err != nil {
		return err
	}
	if err := h.Bookings.DeleteItemsTx(ctx, tx, bookingID); err != nil {
		return err
	}
	if err := h.Bookings.DeleteServiceTiresTx(ctx, tx, bookingID); err != nil {
		return err
	}
	if err := h.writeItemsTx(ctx, tx, bookingID, form); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// publishConfirmed fires the booking.confirmed event after commit. Broker
// failures are logged and never affect the response.
func (h *BookingHandler) publishConfirmed(det *repository.BookingDetail) {
	services := make([]string, 0, len(det.Items))
	for _, it := range det.Items {
		services = append(services, it.ServiceName)
	}
	ev := queue.BookingConfirmedEvent{
		BookingID:    det.ID,
		CustomerID:   det.CustomerID,
		CustomerName: det.CustomerName,
		VehicleID:    det.VehicleID,
		LicensePlate: det.LicensePlate,
		ServiceDate:  det.ServiceDate,
		ServiceTime:  det.ServiceTime,
		Services:     services,
		Status:       det.Status,
		ConfirmedAt:  time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := queue_publisher.PublishBookingConfirmed(ctx, ev); err != nil {
			log.Printf("booking: publish confirmed event failed: %v", err)
		}
	}()
}

func bookingErrStatus(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrVehicleRequired):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "vehicle information required"})
	case errors.Is(err, repository.ErrSlotFull):
		return c.JSON(http.StatusConflict, echo.Map{"error": "time slot is fully booked"})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown service selection"})
	case errors.Is(err, sql.ErrNoRows):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
}

// customerFromContext loads the customer profile for the authenticated
// user.
func (h *BookingHandler) customerFromContext(c echo.Context, ctx context.Context) (model.Customer, error) {
	uid, err := getUserID(c)
	if err != nil {
		return model.Customer{}, err
	}
	return h.Customers.GetByUserID(ctx, uid)
}

// Create handles POST /v1/bookings.
func (h *BookingHandler) Create(c echo.Context) error {
	var form bookingForm
	if err := c.Bind(&form); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := form.normalize(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	cust, err := h.customerFromContext(c, ctx)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	id, err := h.createBooking(ctx, cust.ID, &form)
	if err != nil {
		return bookingErrStatus(c, err)
	}

	det, err := h.Bookings.GetDetail(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load booking failed"})
	}
	h.publishConfirmed(det)
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": det})
}

// Update handles PUT /v1/bookings/:id (customer-owned replace).
func (h *BookingHandler) Update(c echo.Context) error {
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

	cust, err := h.customerFromContext(c, ctx)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if err := h.replaceBooking(ctx, id, cust.ID, &form); err != nil {
		return bookingErrStatus(c, err)
	}
	det, err := h.Bookings.GetDetail(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load booking failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": det})
}

// MyBookings handles GET /v1/my-bookings.
func (h *BookingHandler) MyBookings(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cust, err := h.customerFromContext(c, ctx)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	list, err := h.Bookings.ListByCustomer(ctx, cust.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": list})
}

// GetByID handles GET /v1/bookings/:id (owner only).
func (h *BookingHandler) GetByID(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cust, err := h.customerFromContext(c, ctx)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	det, err := h.Bookings.GetDetail(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if det.CustomerID != cust.ID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": det})
}

// Cancel handles POST /v1/bookings/:id/cancel.
func (h *BookingHandler) Cancel(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cust, err := h.customerFromContext(c, ctx)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	b, err := h.Bookings.GetHeader(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if b.CustomerID != cust.ID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if b.Status == model.StatusCancelled {
		return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"status": string(model.StatusCancelled)}})
	}
	if err := h.Bookings.UpdateStatus(ctx, id, model.StatusCancelled); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"status": string(model.StatusCancelled)}})
}

// Availability handles GET /v1/availability?service_date=YYYY-MM-DD. The
// response is advisory; the booking write re-checks inside its
// transaction.
func (h *BookingHandler) Availability(c echo.Context) error {
	date := strings.TrimSpace(c.QueryParam("service_date"))
	if date == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "service_date required"})
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "service_date must be YYYY-MM-DD"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	counts, err := h.Bookings.CountsByDate(ctx, date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"service_date": date,
			"slots":        model.BuildAvailability(counts),
		},
	})
}
