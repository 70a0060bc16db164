package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/carvalue/marketplace-api/internal/core/domain"
	"github.com/carvalue/marketplace-api/internal/core/ports"
)

// UserHandler serves account management and the per-user listings.
type UserHandler struct {
	users   ports.UserService
	reports ports.ReportService
	reviews ports.ReviewService
}

func NewUserHandler(users ports.UserService, reports ports.ReportService, reviews ports.ReviewService) *UserHandler {
	return &UserHandler{users: users, reports: reports, reviews: reviews}
}

// List returns all users, or the one matching ?email=.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        email  query     string  false  "Exact email"
// @Success      200    {array}   userResponse
// @Failure      401    {object}  errorResponse
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.users.ListUsers(c.Request().Context(), c.QueryParam("email"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponses(users))
}

// Get returns a single user.
//
// @Summary      Get user
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  userResponse
// @Failure      404  {object}  errorResponse
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.users.GetUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// Update changes a user's email or password.
//
// @Summary      Update user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User ID"
// @Param        body  body      updateUserRequest  true  "Fields to change"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /users/{id} [patch]
func (h *UserHandler) Update(c echo.Context) error {
	var req updateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	patch := domain.UserPatch{Email: req.Email, Password: req.Password}
	user, err := h.users.UpdateUser(c.Request().Context(), c.Param("id"), patch, actor(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// Remove deletes a user with their reports and reviews.
//
// @Summary      Remove user
// @Tags         users
// @Security     BearerAuth
// @Param        id   path  string  true  "User ID"
// @Success      204
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /users/{id} [delete]
func (h *UserHandler) Remove(c echo.Context) error {
	if err := h.users.RemoveUser(c.Request().Context(), c.Param("id"), actor(c)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// SetAdmin grants or revokes administrator rights.
//
// @Summary      Set admin flag
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string           true  "User ID"
// @Param        body  body      setAdminRequest  true  "Admin flag"
// @Success      200   {object}  userResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /users/{id}/admin [patch]
func (h *UserHandler) SetAdmin(c echo.Context) error {
	var req setAdminRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.users.SetAdmin(c.Request().Context(), c.Param("id"), *req.Admin, actor(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// Reports lists a seller's reports as the caller may see them.
//
// @Summary      List a user's reports
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {array}   reportResponse
// @Failure      404  {object}  errorResponse
// @Router       /users/{id}/reports [get]
func (h *UserHandler) Reports(c echo.Context) error {
	views, err := h.reports.ListUserReports(c.Request().Context(), c.Param("id"), actor(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toReportResponses(views))
}

// Reviews lists the reviews a user has written on reports the caller may see.
//
// @Summary      List a user's reviews
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {array}   reviewResponse
// @Router       /users/{id}/reviews [get]
func (h *UserHandler) Reviews(c echo.Context) error {
	views, err := h.reviews.ListReviewsByUser(c.Request().Context(), c.Param("id"), actor(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toReviewResponses(views))
}
