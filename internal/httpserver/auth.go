package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Mikael-duru/mockwise/internal/auth"
	"github.com/Mikael-duru/mockwise/internal/store"
)

const userContextKey = "mockwise.user"

// currentUser returns the user resolved by requireUser. Only valid on
// routes behind that middleware.
func currentUser(c echo.Context) *store.User {
	u, _ := c.Get(userContextKey).(*store.User)
	return u
}

// requireUser resolves the session cookie into a user record, or rejects
// the request with the uniform error shape.
func (s *Server) requireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		cookie, err := c.Cookie(auth.SessionCookieName)
		if err != nil || cookie.Value == "" {
			return fail(c, http.StatusUnauthorized, "not signed in")
		}
		uid, err := s.deps.Sessions.Verify(cookie.Value)
		if err != nil {
			return fail(c, http.StatusUnauthorized, "not signed in")
		}
		user, err := s.deps.Users.Get(c.Request().Context(), uid)
		if err != nil {
			return fail(c, http.StatusUnauthorized, "not signed in")
		}
		c.Set(userContextKey, user)
		return next(c)
	}
}

type signUpRequest struct {
	UID         string `json:"uid"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhotoURL    string `json:"photoURL"`
	ImgPublicID string `json:"imgPublicId"`
}

func (s *Server) signUp(c echo.Context) error {
	var req signUpRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	if req.UID == "" || req.Email == "" {
		return fail(c, http.StatusBadRequest, "uid and email are required")
	}
	err := s.deps.Users.Create(c.Request().Context(), &store.User{
		ID:          req.UID,
		Name:        req.Name,
		Email:       req.Email,
		PhotoURL:    req.PhotoURL,
		ImgPublicID: req.ImgPublicID,
	})
	if err != nil {
		s.deps.Logger.Error("user create failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false, "message": "Failed to create user account",
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true, "message": "User account created successfully",
	})
}

type signInRequest struct {
	Email   string `json:"email"`
	IDToken string `json:"idToken"`
}

// signIn exchanges an identity-provider token for the 7-day session
// cookie.
func (s *Server) signIn(c echo.Context) error {
	var req signInRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}

	identity, err := s.deps.Verifier.Verify(c.Request().Context(), req.IDToken)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "invalid credentials")
	}

	user, err := s.deps.Users.GetByEmail(c.Request().Context(), req.Email)
	if errors.Is(err, store.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{
			"success": false, "message": "User not found",
		})
	}
	if err != nil {
		s.deps.Logger.Error("user lookup failed", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "sign in failed")
	}
	if user.ID != identity.UID {
		return fail(c, http.StatusUnauthorized, "invalid credentials")
	}

	token, err := s.deps.Sessions.Issue(user.ID)
	if err != nil {
		s.deps.Logger.Error("session issue failed", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "sign in failed")
	}
	c.SetCookie(s.deps.Sessions.Cookie(token))
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

func (s *Server) signOut(c echo.Context) error {
	c.SetCookie(s.deps.Sessions.ClearCookie())
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

func (s *Server) me(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": currentUser(c)})
}

type updateUserRequest struct {
	PhotoURL    string `json:"photoURL"`
	ImgPublicID string `json:"imgPublicId"`
}

func (s *Server) updateMe(c echo.Context) error {
	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	user := currentUser(c)
	if err := s.deps.Users.UpdatePhoto(c.Request().Context(), user.ID, req.PhotoURL, req.ImgPublicID); err != nil {
		s.deps.Logger.Error("user update failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false, "message": "Failed to update user",
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true, "message": "User updated successfully",
	})
}
