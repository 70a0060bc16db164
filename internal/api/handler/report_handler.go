package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/carvalue/marketplace-api/internal/api/metrics"
	"github.com/carvalue/marketplace-api/internal/core/ports"
)

type ReportHandler struct {
	service ports.ReportService
}

func NewReportHandler(service ports.ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

// Create submits a new report owned by the caller.
//
// @Summary      Create report
// @Tags         reports
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createReportRequest  true  "Vehicle listing"
// @Success      201   {object}  reportResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /reports [post]
func (h *ReportHandler) Create(c echo.Context) error {
	var req createReportRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	input := ports.CreateReportInput{
		Price:   *req.Price,
		Make:    req.Make,
		Model:   req.Model,
		Year:    *req.Year,
		Mileage: *req.Mileage,
		Lat:     *req.Lat,
		Lng:     *req.Lng,
	}
	view, err := h.service.CreateReport(c.Request().Context(), input, actor(c))
	if err != nil {
		return err
	}

	metrics.ReportsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, toReportResponse(view))
}

// List returns the reports the caller may see.
//
// @Summary      List reports
// @Tags         reports
// @Produce      json
// @Success      200  {array}  reportResponse
// @Router       /reports [get]
func (h *ReportHandler) List(c echo.Context) error {
	views, err := h.service.ListReports(c.Request().Context(), actor(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toReportResponses(views))
}

// Get returns a single report.
//
// @Summary      Get report
// @Tags         reports
// @Produce      json
// @Param        id   path      string  true  "Report ID"
// @Success      200  {object}  reportResponse
// @Failure      404  {object}  errorResponse
// @Router       /reports/{id} [get]
func (h *ReportHandler) Get(c echo.Context) error {
	view, err := h.service.GetReport(c.Request().Context(), c.Param("id"), actor(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toReportResponse(view))
}

// Update changes the business fields of a report. Owner only.
//
// @Summary      Update report
// @Tags         reports
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Report ID"
// @Param        body  body      updateReportRequest  true  "Fields to change"
// @Success      200   {object}  reportResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /reports/{id} [patch]
func (h *ReportHandler) Update(c echo.Context) error {
	var req updateReportRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	view, err := h.service.UpdateReport(c.Request().Context(), c.Param("id"), req.toPatch(), actor(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toReportResponse(view))
}

// Delete removes a report and its reviews, returning the removed report.
//
// @Summary      Delete report
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Report ID"
// @Success      200  {object}  reportResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /reports/{id} [delete]
func (h *ReportHandler) Delete(c echo.Context) error {
	view, err := h.service.DeleteReport(c.Request().Context(), c.Param("id"), actor(c))
	if err != nil {
		return err
	}

	metrics.ReportsDeletedTotal.Inc()
	return c.JSON(http.StatusOK, toReportResponse(view))
}

// Approve sets the approval flag. Admin only.
//
// @Summary      Approve report
// @Tags         reports
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Report ID"
// @Param        body  body      approveReportRequest  true  "Approval"
// @Success      200   {object}  reportResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /reports/{id}/approve [patch]
func (h *ReportHandler) Approve(c echo.Context) error {
	var req approveReportRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	view, err := h.service.ApproveReport(c.Request().Context(), c.Param("id"), *req.Approved, actor(c))
	if err != nil {
		return err
	}

	metrics.ReportApprovalsTotal.WithLabelValues(strconv.FormatBool(*req.Approved)).Inc()
	return c.JSON(http.StatusOK, toReportResponse(view))
}

// Estimate averages the price of up to three approved comparable reports.
//
// @Summary      Estimate price
// @Tags         reports
// @Produce      json
// @Param        make     query     string  false  "Make"
// @Param        model    query     string  false  "Model"
// @Param        year     query     int     false  "Year"
// @Param        mileage  query     int     false  "Mileage"
// @Param        lat      query     number  false  "Latitude"
// @Param        lng      query     number  false  "Longitude"
// @Success      200      {object}  estimateResponse
// @Failure      400      {object}  errorResponse
// @Router       /reports/estimate [get]
func (h *ReportHandler) Estimate(c echo.Context) error {
	q, err := bindEstimateQuery(c)
	if err != nil {
		return err
	}
	if err := c.Validate(&q); err != nil {
		return err
	}

	timer := prometheus.NewTimer(metrics.EstimateDuration)
	est, err := h.service.Estimate(c.Request().Context(), toEstimateCriteria(q))
	timer.ObserveDuration()
	if err != nil {
		return err
	}

	result := "priced"
	if est.Price == nil {
		result = "empty"
	}
	metrics.EstimatesTotal.WithLabelValues(result).Inc()

	return c.JSON(http.StatusOK, estimateResponse{Price: est.Price, Comparables: est.Comparables})
}

// bindEstimateQuery reads the optional criteria, leaving absent numbers nil.
func bindEstimateQuery(c echo.Context) (estimateQuery, error) {
	q := estimateQuery{
		Make:  c.QueryParam("make"),
		Model: c.QueryParam("model"),
	}
	b := echo.QueryParamsBinder(c)

	if c.QueryParam("year") != "" {
		q.Year = new(int)
		b.Int("year", q.Year)
	}
	if c.QueryParam("mileage") != "" {
		q.Mileage = new(int64)
		b.Int64("mileage", q.Mileage)
	}
	if c.QueryParam("lat") != "" {
		q.Lat = new(float64)
		b.Float64("lat", q.Lat)
	}
	if c.QueryParam("lng") != "" {
		q.Lng = new(float64)
		b.Float64("lng", q.Lng)
	}

	if err := b.BindError(); err != nil {
		return q, echo.NewHTTPError(http.StatusBadRequest, "invalid estimate query")
	}
	return q, nil
}
