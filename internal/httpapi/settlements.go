package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eduvision/expenses/internal/models"
	"github.com/eduvision/expenses/internal/service"
)

type settlementRequest struct {
	GroupID  string `json:"groupId" validate:"required"`
	ToUserID string `json:"toUserId" validate:"required"`
	Amount   int64  `json:"amount" validate:"required,gt=0"`
	Status   string `json:"status"`
	Notes    string `json:"notes"`
}

func (s *Server) getSettlements(c echo.Context) error {
	groupID := c.QueryParam("groupId")
	if groupID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "groupId is required")
	}

	settlements, err := s.expenses.ListSettlements(c.Request().Context(), currentUserID(c), groupID)
	if err != nil {
		return err
	}
	if settlements == nil {
		settlements = []*models.Settlement{}
	}
	return c.JSON(http.StatusOK, settlements)
}

func (s *Server) createSettlement(c echo.Context) error {
	var req settlementRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	settlement, err := s.expenses.CreateSettlement(c.Request().Context(), currentUserID(c), service.SettlementInput{
		GroupID:  req.GroupID,
		ToUserID: req.ToUserID,
		Amount:   req.Amount,
		Status:   models.SettlementStatus(req.Status),
		Notes:    req.Notes,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, settlement)
}

func (s *Server) deleteSettlement(c echo.Context) error {
	settlementID := c.QueryParam("id")
	if settlementID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "settlement id is required")
	}

	if err := s.expenses.DeleteSettlement(c.Request().Context(), currentUserID(c), settlementID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
