package handler

// Staff authentication endpoints.  Only admins and interviewers hold
// accounts; students never log in and reach the system exclusively
// through public booking links.  Account provisioning happens out of
// band (seed data or an ops script), so there is no self-registration
// endpoint.

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/recruitops/interview-booking/internal/config"
	"github.com/recruitops/interview-booking/internal/repository"
	"github.com/recruitops/interview-booking/internal/utils"
)

// AuthHandler bundles the dependencies used by the authentication
// endpoints: configuration for JWT issuing and the user repository for
// credential lookups.
type AuthHandler struct {
	Cfg   *config.Config       // JWT secret and TTL settings
	Users *repository.UserRepo // user lookups by email and id
}

// NewAuthHandler constructs an AuthHandler.  Both dependencies must be
// non-nil.
func NewAuthHandler(cfg *config.Config, users *repository.UserRepo) *AuthHandler {
	if cfg == nil || users == nil {
		panic("nil dependency passed to NewAuthHandler")
	}
	return &AuthHandler{Cfg: cfg, Users: users}
}

// loginReq is the JSON body for POST /v1/auth/login.
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /v1/auth/login.  It verifies the email/password
// pair against the stored bcrypt hash and returns a signed access token
// together with the user's profile.  Inactive accounts and bad
// credentials both yield HTTP 401 with the same message so the endpoint
// does not leak which emails exist.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and password are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	user, err := h.Users.GetByEmail(ctx, email)
	if err != nil || !user.IsActive || !utils.VerifyPassword(user.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	token, err := utils.NewAccessToken(h.Cfg.JWTSecret, user.ID, user.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to issue token"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"access_token": token.Token,
		"expires_at":   token.Exp,
		"user": echo.Map{
			"id":        user.ID,
			"email":     user.Email,
			"full_name": user.FullName,
			"role":      user.Role,
		},
	})
}

// Me handles GET /v1/me.  It returns the authenticated staff profile
// derived from the access token.
func (h *AuthHandler) Me(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx := c.Request().Context()
	user, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"id":        user.ID,
		"email":     user.Email,
		"full_name": user.FullName,
		"role":      user.Role,
	})
}
