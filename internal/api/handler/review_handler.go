package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/carvalue/marketplace-api/internal/api/metrics"
	"github.com/carvalue/marketplace-api/internal/core/domain"
	"github.com/carvalue/marketplace-api/internal/core/ports"
)

// ReviewHandler serves reviews nested under a report plus the flat lookup.
type ReviewHandler struct {
	service ports.ReviewService
}

func NewReviewHandler(service ports.ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

// Create reviews the seller of a report.
//
// @Summary      Create review
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Report ID"
// @Param        body  body      createReviewRequest  true  "Review"
// @Success      201   {object}  reviewResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /reports/{id}/reviews [post]
func (h *ReviewHandler) Create(c echo.Context) error {
	var req createReviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	input := ports.CreateReviewInput{Content: req.Content, Rating: *req.Rating}
	view, err := h.service.CreateReview(c.Request().Context(), c.Param("id"), input, actor(c))
	if err != nil {
		return err
	}

	metrics.ReviewsCreatedTotal.WithLabelValues(strconv.Itoa(view.Rating)).Inc()
	return c.JSON(http.StatusCreated, toReviewResponse(view))
}

// ListForReport returns the reviews of a visible report.
//
// @Summary      List report reviews
// @Tags         reviews
// @Produce      json
// @Param        id   path      string  true  "Report ID"
// @Success      200  {array}   reviewResponse
// @Failure      404  {object}  errorResponse
// @Router       /reports/{id}/reviews [get]
func (h *ReviewHandler) ListForReport(c echo.Context) error {
	views, err := h.service.ListReviewsForReport(c.Request().Context(), c.Param("id"), actor(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toReviewResponses(views))
}

// Get returns a single review.
//
// @Summary      Get review
// @Tags         reviews
// @Produce      json
// @Param        id   path      string  true  "Review ID"
// @Success      200  {object}  reviewResponse
// @Failure      404  {object}  errorResponse
// @Router       /reviews/{id} [get]
func (h *ReviewHandler) Get(c echo.Context) error {
	view, err := h.service.GetReview(c.Request().Context(), c.Param("id"), actor(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toReviewResponse(view))
}

// Update edits a review. Author only.
//
// @Summary      Update review
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Report ID"
// @Param        rid   path      string               true  "Review ID"
// @Param        body  body      updateReviewRequest  true  "Fields to change"
// @Success      200   {object}  reviewResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /reports/{id}/reviews/{rid} [patch]
func (h *ReviewHandler) Update(c echo.Context) error {
	var req updateReviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	patch := domain.ReviewPatch{Content: req.Content, Rating: req.Rating}
	view, err := h.service.UpdateReview(c.Request().Context(), c.Param("id"), c.Param("rid"), patch, actor(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toReviewResponse(view))
}

// Delete removes a review. Author only.
//
// @Summary      Delete review
// @Tags         reviews
// @Security     BearerAuth
// @Param        id   path  string  true  "Report ID"
// @Param        rid  path  string  true  "Review ID"
// @Success      204
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /reports/{id}/reviews/{rid} [delete]
func (h *ReviewHandler) Delete(c echo.Context) error {
	if err := h.service.DeleteReview(c.Request().Context(), c.Param("id"), c.Param("rid"), actor(c)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
