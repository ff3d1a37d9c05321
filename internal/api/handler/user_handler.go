package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/code-sharad/expense-tracker/internal/api/metrics"
	"github.com/code-sharad/expense-tracker/internal/core/domain"
	"github.com/code-sharad/expense-tracker/internal/core/ports"
)

// UserHandler handles HTTP requests for user accounts.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// Create handles POST /user.
//
// @Summary      Create a user
// @Description  Admins may create any role; managers may not create admins.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "New user"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /user [post]
func (h *UserHandler) Create(c echo.Context) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}

	var req createUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.service.CreateUser(c.Request().Context(), caller, ports.CreateUserInput{
		Email:     req.Email,
		Password:  req.Password,
		Role:      req.Role,
		ManagerID: strings.TrimSpace(req.ManagerID),
	})
	if err != nil {
		return err
	}

	metrics.UsersCreatedTotal.WithLabelValues(user.Role.String()).Inc()
	return c.JSON(http.StatusCreated, toUserResponse(user))
}

// ListByManager handles GET /user?managerId=ID.
//
// @Summary      List users reporting to a manager
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        managerId  query     string  true  "Manager id"
// @Success      200        {array}   userResponse
// @Failure      400        {object}  errorResponse
// @Failure      403        {object}  errorResponse
// @Failure      404        {object}  errorResponse
// @Router       /user [get]
func (h *UserHandler) ListByManager(c echo.Context) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}

	managerID := strings.TrimSpace(c.QueryParam("managerId"))
	if managerID == "" {
		return fmt.Errorf("%w: managerId query parameter required", domain.ErrInvalidInput)
	}

	users, err := h.service.ListByManager(c.Request().Context(), caller, managerID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponses(users))
}

// ListAll handles GET /users.
//
// @Summary      List every user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   userResponse
// @Failure      403  {object}  errorResponse
// @Router       /users [get]
func (h *UserHandler) ListAll(c echo.Context) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}

	users, err := h.service.ListAll(c.Request().Context(), caller)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponses(users))
}
