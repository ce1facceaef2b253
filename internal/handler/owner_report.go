package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tireweb/tire-shop-api/internal/model"
	"github.com/tireweb/tire-shop-api/internal/report"
	"github.com/tireweb/tire-shop-api/internal/repository"
)

// OwnerReportHandler serves dashboards, reports and their PDF exports.
type OwnerReportHandler struct {
	Stats     *repository.StatsRepo
	Customers *repository.CustomerRepo
	PageViews *repository.PageViewRepo
}

func NewOwnerReportHandler(s *repository.StatsRepo, cu *repository.CustomerRepo, pv *repository.PageViewRepo) *OwnerReportHandler {
	return &OwnerReportHandler{Stats: s, Customers: cu, PageViews: pv}
}

// reportRange parses from/to query params, defaulting to the current
// month.
func reportRange(c echo.Context) (string, string, error) {
	now := time.Now()
	from := strings.TrimSpace(c.QueryParam("from"))
	to := strings.TrimSpace(c.QueryParam("to"))
	if from == "" {
		from = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).Format("2006-01-02")
	}
	if to == "" {
		to = now.Format("2006-01-02")
	}
	for _, d := range []string{from, to} {
		if _, err := time.Parse("2006-01-02", d); err != nil {
			return "", "", fmt.Errorf("dates must be YYYY-MM-DD")
		}
	}
	return from, to, nil
}

// Dashboard handles GET /v1/owner/dashboard.
func (h *OwnerReportHandler) Dashboard(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	totals, err := h.Stats.DashboardTotals(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	byStatus, err := h.Stats.CountByStatus(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	statuses := echo.Map{}
	for _, st := range model.BookingStatuses {
		statuses[st.English()] = byStatus[string(st)]
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{
		"totals":             totals,
		"bookings_by_status": statuses,
	}})
}

// Charts handles GET /v1/owner/charts (12-month booking and new
// customer series for the dashboard graphs).
func (h *OwnerReportHandler) Charts(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	bookings, err := h.Stats.MonthlyBookings(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	customers, err := h.Customers.MonthlyNewCustomers(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{
		"monthly_bookings":  bookings,
		"monthly_customers": customers,
	}})
}

// BookingReport handles GET /v1/owner/reports/bookings?from=&to=.
func (h *OwnerReportHandler) BookingReport(c echo.Context) error {
	from, to, err := reportRange(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	rows, err := h.Stats.BookingReport(ctx, from, to)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	monthly, err := h.Stats.MonthlyReport(ctx, from, to)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{
		"from":    from,
		"to":      to,
		"rows":    rows,
		"monthly": monthly,
	}})
}

// BookingReportPDF handles GET /v1/owner/reports/bookings/pdf.
func (h *OwnerReportHandler) BookingReportPDF(c echo.Context) error {
	from, to, err := reportRange(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	rows, err := h.Stats.BookingReport(ctx, from, to)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	monthly, err := h.Stats.MonthlyReport(ctx, from, to)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	pdf, err := report.BookingReportPDF(from, to, rows, monthly)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "render report failed"})
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="booking-report-%s-%s.pdf"`, from, to))
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}

// VisitStats handles GET /v1/owner/reports/visits?days=.
func (h *OwnerReportHandler) VisitStats(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	top, err := h.PageViews.TopPages(ctx, queryInt(c, "limit", 10))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	devices, err := h.PageViews.DeviceCounts(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	daily, err := h.PageViews.DailyCounts(ctx, queryInt(c, "days", 7))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{
		"top_pages": top,
		"devices":   devices,
		"daily":     daily,
	}})
}

// VisitStatsPDF handles GET /v1/owner/reports/visits/pdf.
func (h *OwnerReportHandler) VisitStatsPDF(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	top, err := h.PageViews.TopPages(ctx, queryInt(c, "limit", 10))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	devices, err := h.PageViews.DeviceCounts(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	daily, err := h.PageViews.DailyCounts(ctx, queryInt(c, "days", 30))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	pdf, err := report.VisitStatsPDF(top, devices, daily)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "render report failed"})
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		`attachment; filename="visit-stats.pdf"`)
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}
