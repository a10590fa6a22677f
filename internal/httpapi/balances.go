package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eduvision/expenses/internal/models"
)

// getBalances returns every member's balance for the group, or a single
// user's record (null when they have none) if ?userId= is given.
func (s *Server) getBalances(c echo.Context) error {
	groupID := c.QueryParam("groupId")
	if groupID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "groupId is required")
	}
	targetUserID := c.QueryParam("userId")

	balances, err := s.expenses.GetGroupBalances(c.Request().Context(), currentUserID(c), groupID, targetUserID)
	if err != nil {
		return err
	}

	if targetUserID != "" {
		if len(balances) == 0 {
			return c.JSON(http.StatusOK, nil)
		}
		return c.JSON(http.StatusOK, balances[0])
	}
	if balances == nil {
		balances = []models.UserBalance{}
	}
	return c.JSON(http.StatusOK, balances)
}

func (s *Server) getSuggestions(c echo.Context) error {
	groupID := c.QueryParam("groupId")
	if groupID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "groupId is required")
	}

	transfers, err := s.expenses.SuggestSettlements(c.Request().Context(), currentUserID(c), groupID)
	if err != nil {
		return err
	}
	if transfers == nil {
		transfers = []models.SuggestedTransfer{}
	}
	return c.JSON(http.StatusOK, transfers)
}

func (s *Server) getClassmates(c echo.Context) error {
	classmates := s.expenses.GetClassmates(c.Request().Context(), currentUserID(c))
	return c.JSON(http.StatusOK, classmates)
}
