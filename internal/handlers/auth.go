package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/sejins/studyhub/internal/constants"
	"github.com/sejins/studyhub/internal/dto"
	apierrors "github.com/sejins/studyhub/internal/errors"
	"github.com/sejins/studyhub/internal/middleware"
	"github.com/sejins/studyhub/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	accountService *services.AccountService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(accountService *services.AccountService) *AuthHandler {
	return &AuthHandler{
		accountService: accountService,
	}
}

// Signup registers a new account and queues the confirmation mail.
func (h *AuthHandler) Signup(c *gin.Context) {
	type SignupRequest struct {
		Email    string `json:"email" binding:"required,email"`
		Nickname string `json:"nickname" binding:"required,min=3,max=20"`
		Password string `json:"password" binding:"required"`
	}

	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	account, err := h.accountService.Signup(services.SignupInput{
		Email:    req.Email,
		Nickname: req.Nickname,
		Password: req.Password,
	})
	if err != nil {
		respondAccountError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToAccountDTO(account))
}

// Login authenticates an account and initializes the session.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		EmailOrNickname string `json:"email_or_nickname" binding:"required"`
		Password        string `json:"password" binding:"required"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	account, err := h.accountService.Login(services.LoginInput{
		EmailOrNickname: req.EmailOrNickname,
		Password:        req.Password,
	})
	if err != nil {
		respondAccountError(c, err)
		return
	}

	session := sessions.Default(c)
	session.Set(constants.ContextKeyAccountID, account.ID)
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountDTO(account))
}

// Logout removes the authentication session.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to logout")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// GetCurrentAccount returns the authenticated account with its interests.
func (h *AuthHandler) GetCurrentAccount(c *gin.Context) {
	accountID, exists := middleware.GetAccountID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	account, err := h.accountService.GetAccountWithInterests(accountID)
	if err != nil {
		respondAccountError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountDTO(account))
}

// CheckEmailToken verifies the emailed token and completes the signup.
func (h *AuthHandler) CheckEmailToken(c *gin.Context) {
	email := c.Query("email")
	token := c.Query("token")
	if email == "" || token == "" {
		apierrors.BadRequest(c, "Missing email or token")
		return
	}

	account, err := h.accountService.VerifyEmail(email, token)
	if err != nil {
		respondAccountError(c, err)
		return
	}

	session := sessions.Default(c)
	session.Set(constants.ContextKeyAccountID, account.ID)
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountDTO(account))
}

// SendLoginLink mails a passwordless login link to a verified account.
func (h *AuthHandler) SendLoginLink(c *gin.Context) {
	type LoginLinkRequest struct {
		Email string `json:"email" binding:"required,email"`
	}

	var req LoginLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.accountService.SendLoginLink(req.Email); err != nil {
		respondAccountError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login link sent",
	})
}

// LoginByEmail authenticates with a mailed login-link token and
// initializes the session.
func (h *AuthHandler) LoginByEmail(c *gin.Context) {
	email := c.Query("email")
	token := c.Query("token")
	if email == "" || token == "" {
		apierrors.BadRequest(c, "Missing email or token")
		return
	}

	account, err := h.accountService.LoginByEmail(email, token)
	if err != nil {
		respondAccountError(c, err)
		return
	}

	session := sessions.Default(c)
	session.Set(constants.ContextKeyAccountID, account.ID)
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountDTO(account))
}

// ResendConfirmEmail regenerates the token and queues another
// confirmation mail, at most once per hour.
func (h *AuthHandler) ResendConfirmEmail(c *gin.Context) {
	accountID, exists := middleware.GetAccountID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	if err := h.accountService.ResendConfirmEmail(accountID); err != nil {
		respondAccountError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Confirmation email sent",
	})
}

func respondAccountError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.BadRequest(c, fmt.Sprintf("Password must be at least %d characters", constants.MinPasswordLength))
	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrNicknameTaken):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.Unauthorized(c, err.Error())
	case errors.Is(err, services.ErrInvalidEmailToken):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrResendCooldown):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrEmailNotVerified):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrAccountNotFound),
		errors.Is(err, services.ErrTagNotFound),
		errors.Is(err, services.ErrZoneNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrFailedToHashPassword):
		apierrors.InternalError(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
