package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eduvision/expenses/internal/models"
	"github.com/eduvision/expenses/internal/service"
)

type shareRequest struct {
	UserID string `json:"userId" validate:"required"`
	Value  int64  `json:"value"`
}

type expenseRequest struct {
	ID          string         `json:"id"`
	GroupID     string         `json:"groupId"`
	Description string         `json:"description" validate:"required"`
	Amount      int64          `json:"amount" validate:"required,gt=0"`
	SplitType   string         `json:"splitType"`
	Notes       string         `json:"notes"`
	Shares      []shareRequest `json:"shares" validate:"required,min=1,dive"`
}

func (r expenseRequest) input() service.ExpenseInput {
	shares := make([]service.ShareInput, len(r.Shares))
	for i, s := range r.Shares {
		shares[i] = service.ShareInput{UserID: s.UserID, Value: s.Value}
	}
	return service.ExpenseInput{
		GroupID:     r.GroupID,
		Description: r.Description,
		Amount:      r.Amount,
		SplitType:   models.SplitType(r.SplitType),
		Notes:       r.Notes,
		Shares:      shares,
	}
}

// getExpenses returns one expense when ?id= is given, a group's expenses when
// ?groupId= is given, otherwise all of the caller's expenses.
func (s *Server) getExpenses(c echo.Context) error {
	ctx := c.Request().Context()
	userID := currentUserID(c)

	if expenseID := c.QueryParam("id"); expenseID != "" {
		expense, err := s.expenses.GetExpense(ctx, userID, expenseID)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, expense)
	}

	var (
		expenses []*models.Expense
		err      error
	)
	if groupID := c.QueryParam("groupId"); groupID != "" {
		expenses, err = s.expenses.ListGroupExpenses(ctx, userID, groupID)
	} else {
		expenses, err = s.expenses.GetExpenses(ctx, userID)
	}
	if err != nil {
		return err
	}
	if expenses == nil {
		expenses = []*models.Expense{}
	}
	return c.JSON(http.StatusOK, expenses)
}

func (s *Server) createExpense(c echo.Context) error {
	var req expenseRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	expense, err := s.expenses.CreateExpense(c.Request().Context(), currentUserID(c), req.input())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, expense)
}

func (s *Server) updateExpense(c echo.Context) error {
	var req expenseRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if req.ID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "expense id is required")
	}

	expense, err := s.expenses.UpdateExpense(c.Request().Context(), currentUserID(c), req.ID, req.input())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, expense)
}

func (s *Server) deleteExpense(c echo.Context) error {
	expenseID := c.QueryParam("id")
	if expenseID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "expense id is required")
	}

	if err := s.expenses.DeleteExpense(c.Request().Context(), currentUserID(c), expenseID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
