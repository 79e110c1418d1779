package account

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/docease/docease/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes wires auth endpoints. Register and login are public; the
// session and profile reads require a Bearer token.
func (h *Handler) RegisterRoutes(public, protected *echo.Group) {
	public.POST("/auth/register", h.Register)
	public.POST("/auth/login", h.Login)
	protected.GET("/auth/me", h.Me)
	protected.GET("/profile", h.GetProfile)
}

func (h *Handler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	acct, profile, err := h.svc.Register(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return echo.NewHTTPError(http.StatusConflict, "User already exists. Please sign in.")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"account": acct,
		"profile": profile,
		"message": "Account created. Please sign in.",
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, acct, err := h.svc.SignIn(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, ErrInvalidCredentials.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"token":   token,
		"account": acct,
	})
}

// Me resolves the session to its account and profile. Any failure is a 401,
// never a half-authenticated state.
func (h *Handler) Me(c echo.Context) error {
	ctx := c.Request().Context()
	accountID, err := uuid.Parse(auth.AccountIDFromContext(ctx))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid session")
	}

	acct, profile, err := h.svc.CurrentUser(ctx, accountID)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid session")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"account": acct,
		"profile": profile,
	})
}

func (h *Handler) GetProfile(c echo.Context) error {
	ctx := c.Request().Context()
	accountID, err := uuid.Parse(auth.AccountIDFromContext(ctx))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid session")
	}

	profile, err := h.svc.GetProfile(ctx, accountID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "profile not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, profile)
}
