package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eduvision/expenses/internal/models"
)

type addMemberRequest struct {
	GroupID string `json:"groupId" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	IsAdmin bool   `json:"isAdmin"`
}

type updateMemberRequest struct {
	GroupID  string `json:"groupId" validate:"required"`
	MemberID string `json:"memberId" validate:"required"`
	IsAdmin  bool   `json:"isAdmin"`
}

func (s *Server) getMembers(c echo.Context) error {
	groupID := c.QueryParam("groupId")
	if groupID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "groupId is required")
	}

	members, err := s.groups.ListMembers(c.Request().Context(), currentUserID(c), groupID)
	if err != nil {
		return err
	}
	if members == nil {
		members = []*models.GroupMember{}
	}
	return c.JSON(http.StatusOK, members)
}

func (s *Server) addMember(c echo.Context) error {
	var req addMemberRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	member, err := s.groups.AddMember(c.Request().Context(), currentUserID(c), req.GroupID, req.Email, req.IsAdmin)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, member)
}

func (s *Server) updateMember(c echo.Context) error {
	var req updateMemberRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	member, err := s.groups.SetMemberAdmin(c.Request().Context(), currentUserID(c), req.GroupID, req.MemberID, req.IsAdmin)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, member)
}

func (s *Server) removeMember(c echo.Context) error {
	groupID := c.QueryParam("groupId")
	memberID := c.QueryParam("memberId")
	if groupID == "" || memberID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "groupId and memberId are required")
	}

	if err := s.groups.RemoveMember(c.Request().Context(), currentUserID(c), groupID, memberID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
