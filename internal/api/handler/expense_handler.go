package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/code-sharad/expense-tracker/internal/api/metrics"
	"github.com/code-sharad/expense-tracker/internal/core/domain"
	"github.com/code-sharad/expense-tracker/internal/core/ports"
)

// ExpenseHandler handles HTTP requests for the expense workflow.
type ExpenseHandler struct {
	service ports.ExpenseService
}

func NewExpenseHandler(service ports.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{service: service}
}

// ListMine handles GET /user/expenses.
//
// @Summary      List the expenses visible to the caller
// @Description  Employees see their own, managers their reports', admins all.
// @Tags         expenses
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   expenseResponse
// @Failure      401  {object}  errorResponse
// @Router       /user/expenses [get]
func (h *ExpenseHandler) ListMine(c echo.Context) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}

	views, err := h.service.ListFor(c.Request().Context(), caller)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toExpenseResponses(views))
}

// ListForUser handles GET /user/expenses/:userId.
//
// @Summary      List the expenses of one user
// @Tags         expenses
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string  true  "Submitter id"
// @Success      200     {array}   expenseResponse
// @Failure      403     {object}  errorResponse
// @Failure      404     {object}  errorResponse
// @Router       /user/expenses/{userId} [get]
func (h *ExpenseHandler) ListForUser(c echo.Context) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}

	views, err := h.service.ListForUser(c.Request().Context(), caller, c.Param("userId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toExpenseResponses(views))
}

// Create handles POST /expenses.
//
// @Summary      Submit an expense
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createExpenseRequest  true  "Expense"
// @Success      201   {object}  expenseResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /expenses [post]
func (h *ExpenseHandler) Create(c echo.Context) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}

	var req createExpenseRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return err
	}

	view, err := h.service.Submit(c.Request().Context(), caller, ports.SubmitExpenseInput{
		Amount:      *req.Amount,
		Description: req.Description,
		Date:        date,
	})
	if err != nil {
		return err
	}

	metrics.ExpensesSubmittedTotal.Inc()
	metrics.ExpenseAmountSubmitted.Observe(view.Amount)
	return c.JSON(http.StatusCreated, toExpenseResponse(view))
}

// Resolve handles PATCH /expenses/:expenseId/:status.
//
// @Summary      Approve or reject an expense
// @Tags         expenses
// @Produce      json
// @Security     BearerAuth
// @Param        expenseId  path      string  true  "Expense id"
// @Param        status     path      string  true  "Decision"  Enums(approve, approved, reject, rejected, pending)
// @Success      200        {object}  expenseResponse
// @Failure      400        {object}  errorResponse
// @Failure      403        {object}  errorResponse
// @Failure      404        {object}  errorResponse
// @Failure      409        {object}  errorResponse
// @Router       /expenses/{expenseId}/{status} [patch]
func (h *ExpenseHandler) Resolve(c echo.Context) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}

	view, err := h.service.Resolve(c.Request().Context(), caller, c.Param("expenseId"), c.Param("status"))
	if err != nil {
		metrics.ExpenseResolveErrorsTotal.WithLabelValues(resolveFailureReason(err)).Inc()
		return err
	}

	metrics.ExpensesResolvedTotal.WithLabelValues(string(view.Status)).Inc()
	return c.JSON(http.StatusOK, toExpenseResponse(view))
}

func resolveFailureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidStatus):
		return "invalid_status"
	case errors.Is(err, domain.ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, domain.ErrAlreadyResolved):
		return "already_resolved"
	case errors.Is(err, domain.ErrExpenseNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	default:
		return "error"
	}
}

var dateLayouts = []string{time.DateOnly, time.RFC3339Nano}

// parseDate accepts a calendar date or a full timestamp. Empty yields the
// zero time.
func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: date must be YYYY-MM-DD or RFC 3339", domain.ErrInvalidInput)
}
