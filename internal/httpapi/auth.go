package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eduvision/expenses/internal/auth"
)

type registerRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Name       string `json:"name" validate:"required"`
	Password   string `json:"password" validate:"required"`
	Department string `json:"department"`
	Year       int    `json:"year" validate:"gte=0,lte=6"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (s *Server) register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	session, err := s.authSvc.Register(c.Request().Context(), auth.Registration{
		Email:      req.Email,
		Name:       req.Name,
		Password:   req.Password,
		Department: req.Department,
		Year:       req.Year,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, session)
}

func (s *Server) login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	session, err := s.authSvc.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, session)
}

func (s *Server) currentUser(c echo.Context) error {
	user, err := s.authSvc.CurrentUser(c.Request().Context(), currentUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}
