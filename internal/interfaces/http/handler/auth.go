package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/orgstruct/backend/internal/application/identity"
	"github.com/orgstruct/backend/internal/infrastructure/config"
	"github.com/orgstruct/backend/internal/interfaces/http/dto"
	"github.com/orgstruct/backend/internal/interfaces/http/middleware"
)

// refreshTokenCookieName is the httpOnly cookie carrying the refresh token.
// Keeping it out of the response body keeps it away from script access.
const refreshTokenCookieName = "refresh_token"

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	BaseHandler
	authService  *identity.AuthService
	cookieConfig config.CookieConfig
	jwtConfig    config.JWTConfig
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *identity.AuthService, cookieConfig config.CookieConfig, jwtConfig config.JWTConfig) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		cookieConfig: cookieConfig,
		jwtConfig:    jwtConfig,
	}
}

// Login authenticates a user with username and password. The access token
// is returned in the body; the refresh token travels only in an httpOnly
// cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	// Client IP is recorded with the login attempt
	clientIP := c.ClientIP()

	result, err := h.authService.Login(c.Request.Context(), identity.LoginInput{
		Username: req.Username,
		Password: req.Password,
		IP:       clientIP,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.setRefreshTokenCookie(c, result.RefreshToken)

	response := LoginResponse{
		Token: TokenResponse{
			AccessToken:           result.AccessToken,
			AccessTokenExpiresAt:  result.AccessTokenExpiresAt,
			RefreshTokenExpiresAt: result.RefreshTokenExpiresAt,
			TokenType:             result.TokenType,
		},
		User: toAuthUserResponse(result.User),
	}

	h.Success(c, response)
}

// RefreshToken exchanges a valid refresh token for a new token pair. The
// token is read from the httpOnly cookie; a JSON body is accepted as a
// fallback for non-browser clients.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	refreshToken, err := c.Cookie(refreshTokenCookieName)
	if err != nil || refreshToken == "" {
		var req RefreshTokenRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
			h.Unauthorized(c, "Refresh token required")
			return
		}
		refreshToken = req.RefreshToken
	}

	result, err := h.authService.RefreshToken(c.Request.Context(), identity.RefreshTokenInput{
		RefreshToken: refreshToken,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.setRefreshTokenCookie(c, result.RefreshToken)

	response := RefreshTokenResponse{
		Token: TokenResponse{
			AccessToken:           result.AccessToken,
			AccessTokenExpiresAt:  result.AccessTokenExpiresAt,
			RefreshTokenExpiresAt: result.RefreshTokenExpiresAt,
			TokenType:             result.TokenType,
		},
	}

	h.Success(c, response)
}

// Logout revokes the caller's current access token and clears the refresh
// token cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		h.BadRequest(c, "Invalid user ID in token")
		return
	}

	input := identity.LogoutInput{
		UserID:   userID,
		TokenJTI: claims.ID,
	}
	if claims.ExpiresAt != nil {
		input.TokenExpiresAt = claims.ExpiresAt.Time
	}

	if err := h.authService.Logout(c.Request.Context(), input); err != nil {
		h.HandleError(c, err)
		return
	}

	h.clearRefreshTokenCookie(c)

	h.Success(c, LogoutResponse{
		Message: "Logged out successfully",
	})
}

// ForceLogout revokes every session of the target user. Intended for
// administrators disabling a compromised or departed account.
func (h *AuthHandler) ForceLogout(c *gin.Context) {
	adminUserID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req ForceLogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	targetUserID, err := uuid.Parse(req.UserID)
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}

	result, err := h.authService.ForceLogout(c.Request.Context(), identity.ForceLogoutInput{
		AdminUserID:  adminUserID,
		TargetUserID: targetUserID,
		Reason:       req.Reason,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, LogoutResponse{Message: result.Message})
}

// GetCurrentUser returns the authenticated user's profile and the
// capabilities collected from their enabled roles.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		h.BadRequest(c, "Invalid user ID in token")
		return
	}

	result, err := h.authService.GetCurrentUser(c.Request.Context(), identity.GetCurrentUserInput{
		UserID: userID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	response := CurrentUserResponse{
		User:         toAuthUserResponse(result.User),
		Capabilities: result.Capabilities,
	}

	h.Success(c, response)
}

// ChangePassword changes the current user's password.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		h.BadRequest(c, "Invalid user ID in token")
		return
	}

	err = h.authService.ChangePassword(c.Request.Context(), identity.ChangePasswordInput{
		UserID:      userID,
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{
		"message": "Password changed successfully",
	}))
}

// setRefreshTokenCookie stores the refresh token in an httpOnly cookie
// scoped by the configured domain and path.
func (h *AuthHandler) setRefreshTokenCookie(c *gin.Context, token string) {
	maxAge := int(h.jwtConfig.RefreshTokenExpiration.Seconds())
	c.SetSameSite(h.cookieSameSite())
	c.SetCookie(refreshTokenCookieName, token, maxAge,
		h.cookieConfig.Path, h.cookieConfig.Domain, h.cookieConfig.Secure, true)
}

// clearRefreshTokenCookie expires the refresh token cookie immediately.
func (h *AuthHandler) clearRefreshTokenCookie(c *gin.Context) {
	c.SetSameSite(h.cookieSameSite())
	c.SetCookie(refreshTokenCookieName, "", -1,
		h.cookieConfig.Path, h.cookieConfig.Domain, h.cookieConfig.Secure, true)
}

func (h *AuthHandler) cookieSameSite() http.SameSite {
	switch strings.ToLower(h.cookieConfig.SameSite) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

func toAuthUserResponse(user identity.UserInfo) AuthUserResponse {
	roleIDStrings := make([]string, len(user.RoleIDs))
	for i, rid := range user.RoleIDs {
		roleIDStrings[i] = rid.String()
	}

	return AuthUserResponse{
		ID:           user.ID,
		Username:     user.Username,
		DisplayName:  user.DisplayName,
		Email:        user.Email,
		Phone:        user.Phone,
		ZoneID:       user.ZoneID,
		GroupID:      user.GroupID,
		Capabilities: user.Capabilities,
		RoleIDs:      roleIDStrings,
	}
}
