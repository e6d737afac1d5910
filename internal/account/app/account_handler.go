package app

import (
	"wayfare/internal/account/domain"
	"wayfare/pkg/logger"
	"wayfare/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AccountHandler handles the account HTTP endpoints
type AccountHandler struct {
	usecase AccountUseCase
}

// NewAccountHandler create AccountHandler
func NewAccountHandler(usecase AccountUseCase) *AccountHandler {
	return &AccountHandler{usecase: usecase}
}

func rawToken(c *fiber.Ctx) string {
	if t := c.Query(middlewares.QueryToken); t != "" {
		return t
	}
	return c.Cookies(middlewares.CookieToken)
}

// Register create a new account
// @Summary Register a new account
// @Tags Accounts
// @Accept json
// @Produce json
// @Router /accounts/register [post]
func (h *AccountHandler) Register(c *fiber.Ctx) error {
	type request struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	var req request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}

	if err := h.usecase.Register(c.Context(), req.Username, req.Email, req.Password); err != nil {
		logger.Log.Error("register", zap.String("email", req.Email), zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "register success"})
}

// Login verify credentials and issue a token
// @Summary Log in
// @Tags Accounts
// @Accept json
// @Produce json
// @Router /accounts/login [post]
func (h *AccountHandler) Login(c *fiber.Ctx) error {
	type request struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	var req request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}

	jwtToken, err := h.usecase.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		logger.Log.Error("login", zap.String("email", req.Email), zap.Error(err))
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "login failed"})
	}

	c.Cookie(&fiber.Cookie{
		Name:     middlewares.CookieToken,
		Value:    jwtToken,
		HTTPOnly: true,
	})

	return c.JSON(fiber.Map{"token": jwtToken, "message": "login success"})
}

// Logout close the session of the calling account
// @Summary Log out
// @Tags Accounts
// @Produce json
// @Router /accounts/logout [post]
func (h *AccountHandler) Logout(c *fiber.Ctx) error {
	if err := h.usecase.Logout(c.Context(), rawToken(c)); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	c.ClearCookie(middlewares.CookieToken)
	return c.JSON(fiber.Map{"message": "logout success"})
}

// RefreshSession extend the session of a reconnecting client
// @Summary Refresh the login session
// @Tags Accounts
// @Produce json
// @Router /accounts/session/refresh [put]
func (h *AccountHandler) RefreshSession(c *fiber.Ctx) error {
	if err := h.usecase.RefreshSession(c.Context(), rawToken(c)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "session refreshed"})
}

// Me the calling account's own profile
// @Summary Get my profile
// @Tags Accounts
// @Produce json
// @Router /accounts/me [get]
func (h *AccountHandler) Me(c *fiber.Ctx) error {
	userID, _ := c.Locals(middlewares.TokenUserID).(string)
	account, err := h.usecase.FindAccount(c.Context(), &domain.AccountQuery{AccountID: &userID})
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "account not found"})
	}
	return c.JSON(fiber.Map{
		"accountId":      account.AccountID,
		"username":       account.Username,
		"email":          account.Email,
		"profilePicture": account.ProfilePicture,
	})
}

// Profile a user's public profile
// @Summary Get a public profile
// @Tags Accounts
// @Produce json
// @Router /users/{id}/profile [get]
func (h *AccountHandler) Profile(c *fiber.Ctx) error {
	profile, err := h.usecase.Profile(c.Context(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "account not found"})
	}
	return c.JSON(profile)
}
