package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eduvision/expenses/internal/models"
	"github.com/eduvision/expenses/internal/service"
)

type groupRequest struct {
	ID          string `json:"id"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	IsPublic    bool   `json:"isPublic"`
	Department  string `json:"department"`
	TargetYears []int  `json:"targetYears"`
}

func (r groupRequest) input() service.GroupInput {
	return service.GroupInput{
		Name:        r.Name,
		Description: r.Description,
		IsPublic:    r.IsPublic,
		Department:  r.Department,
		TargetYears: r.TargetYears,
	}
}

// getGroups returns a single group with members when ?id= is given,
// otherwise all groups the caller belongs to.
func (s *Server) getGroups(c echo.Context) error {
	userID := currentUserID(c)
	if groupID := c.QueryParam("id"); groupID != "" {
		group, err := s.groups.GetGroup(c.Request().Context(), userID, groupID)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, group)
	}

	groups, err := s.groups.ListGroups(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	if groups == nil {
		groups = []*models.Group{}
	}
	return c.JSON(http.StatusOK, groups)
}

func (s *Server) createGroup(c echo.Context) error {
	var req groupRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	group, err := s.groups.CreateGroup(c.Request().Context(), currentUserID(c), req.input())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, group)
}

func (s *Server) updateGroup(c echo.Context) error {
	var req groupRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if req.ID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "group id is required")
	}

	group, err := s.groups.UpdateGroup(c.Request().Context(), currentUserID(c), req.ID, req.input())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, group)
}

func (s *Server) deleteGroup(c echo.Context) error {
	groupID := c.QueryParam("id")
	if groupID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "group id is required")
	}

	if err := s.groups.DeleteGroup(c.Request().Context(), currentUserID(c), groupID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
