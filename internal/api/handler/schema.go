package handler

import (
	"time"

	"github.com/code-sharad/expense-tracker/internal/core/domain"
)

// --- Requests ---

type loginRequest struct {
	Email    string `json:"email" example:"admin@gmail.com"`
	Password string `json:"password" example:"admin123"`
}

type createUserRequest struct {
	Email     string `json:"email" validate:"required,email,max=254" example:"alice@example.com"`
	Password  string `json:"password" validate:"required,max=72" example:"s3cret"`
	Role      string `json:"role" example:"EMPLOYEE"`
	ManagerID string `json:"managerId" example:"665f1c2e8a1b2c3d4e5f6a7b"`
}

type createExpenseRequest struct {
	Amount      *float64 `json:"amount" validate:"required,gte=0" example:"42.5"`
	Description string   `json:"description" validate:"required,max=1000" example:"Team lunch"`
	// Date accepts YYYY-MM-DD or RFC 3339; empty means now.
	Date string `json:"date" example:"2024-05-01"`
}

// --- Responses ---

type userSummaryResponse struct {
	ID    string `json:"_id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type userResponse struct {
	ID        string    `json:"_id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	ManagerID *string   `json:"managerId"`
	CreatedBy *string   `json:"createdBy,omitempty"`
	UpdatedBy *string   `json:"updatedBy,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// expenseResponse keeps the populated-reference layout the web client
// reads: userId and ResolvedBy are user objects, not ids.
type expenseResponse struct {
	ID          string               `json:"_id"`
	User        *userSummaryResponse `json:"userId"`
	Amount      float64              `json:"amount"`
	Description string               `json:"description"`
	Date        time.Time            `json:"date"`
	ManagerID   *string              `json:"managerId"`
	ResolvedBy  *userSummaryResponse `json:"ResolvedBy"`
	Status      string               `json:"status"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
}

type loginResponse struct {
	Token string        `json:"token"`
	User  *userResponse `json:"user"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// --- Domain → Response ---

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func toUserSummaryResponse(s *domain.UserSummary) *userSummaryResponse {
	if s == nil {
		return nil
	}
	return &userSummaryResponse{ID: s.ID, Email: s.Email, Role: s.Role.String()}
}

func toUserResponse(u *domain.User) *userResponse {
	return &userResponse{
		ID:        u.ID,
		Email:     u.Email,
		Role:      u.Role.String(),
		ManagerID: nullable(u.ManagerID),
		CreatedBy: nullable(u.CreatedBy),
		UpdatedBy: nullable(u.UpdatedBy),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func toUserResponses(users []*domain.User) []*userResponse {
	out := make([]*userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return out
}

func toExpenseResponse(v *domain.ExpenseView) *expenseResponse {
	return &expenseResponse{
		ID:          v.ID,
		User:        toUserSummaryResponse(v.Submitter),
		Amount:      v.Amount,
		Description: v.Description,
		Date:        v.Date,
		ManagerID:   nullable(v.ManagerID),
		ResolvedBy:  toUserSummaryResponse(v.Resolver),
		Status:      string(v.Status),
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
	}
}

func toExpenseResponses(views []*domain.ExpenseView) []*expenseResponse {
	out := make([]*expenseResponse, 0, len(views))
	for _, v := range views {
		out = append(out, toExpenseResponse(v))
	}
	return out
}
