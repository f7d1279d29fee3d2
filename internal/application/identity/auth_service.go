package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/orgstruct/backend/internal/domain/identity"
	"github.com/orgstruct/backend/internal/domain/shared"
	"github.com/orgstruct/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// AuthServiceConfig contains configuration for the auth service
type AuthServiceConfig struct {
	MaxLoginAttempts int           // Maximum failed login attempts before lock
	LockDuration     time.Duration // How long to lock account after max attempts
}

// DefaultAuthServiceConfig returns default configuration
func DefaultAuthServiceConfig() AuthServiceConfig {
	return AuthServiceConfig{
		MaxLoginAttempts: 5,
		LockDuration:     15 * time.Minute,
	}
}

// AuthService handles authentication operations
type AuthService struct {
	userRepo       identity.UserRepository
	roleRepo       identity.RoleRepository
	jwtService     *auth.JWTService
	tokenBlacklist auth.TokenBlacklist
	config         AuthServiceConfig
	logger         *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	roleRepo identity.RoleRepository,
	jwtService *auth.JWTService,
	tokenBlacklist auth.TokenBlacklist,
	config AuthServiceConfig,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:       userRepo,
		roleRepo:       roleRepo,
		jwtService:     jwtService,
		tokenBlacklist: tokenBlacklist,
		config:         config,
		logger:         logger,
	}
}

// Login authenticates a user and returns tokens
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	s.logger.Info("Login attempt", zap.String("username", input.Username))

	// Find user by username
	user, err := s.userRepo.FindByUsername(ctx, input.Username)
	if err != nil {
		s.logger.Warn("User not found during login", zap.String("username", input.Username))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
	}

	// Check if user can login
	if !user.CanLogin() {
		if user.IsLocked() {
			s.logger.Warn("Login attempt for locked account", zap.String("username", input.Username))
			return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Account is locked. Please try again later or contact support")
		}
		if user.IsDeactivated() {
			s.logger.Warn("Login attempt for deactivated account", zap.String("username", input.Username))
			return nil, shared.NewDomainError("ACCOUNT_DEACTIVATED", "Account has been deactivated")
		}
		if user.IsPending() {
			s.logger.Warn("Login attempt for pending account", zap.String("username", input.Username))
			return nil, shared.NewDomainError("ACCOUNT_PENDING", "Account is pending activation")
		}
		return nil, shared.NewDomainError("ACCOUNT_INACTIVE", "Account is not active")
	}

	// Verify password
	if !user.VerifyPassword(input.Password) {
		// Record failed attempt
		locked := user.RecordLoginFailure(s.config.MaxLoginAttempts, s.config.LockDuration)
		if err := s.userRepo.Update(ctx, user); err != nil {
			s.logger.Error("Failed to update user after login failure", zap.Error(err))
		}

		if locked {
			s.logger.Warn("Account locked after too many failed attempts",
				zap.String("username", input.Username),
				zap.Int("attempts", s.config.MaxLoginAttempts))
			return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Too many failed login attempts. Account has been locked")
		}

		s.logger.Warn("Invalid password attempt",
			zap.String("username", input.Username),
			zap.Int("failed_attempts", user.FailedAttempts))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
	}

	// Load user roles
	if err := s.userRepo.LoadUserRoles(ctx, user); err != nil {
		s.logger.Error("Failed to load user roles", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load user roles")
	}

	// Collect all capabilities from roles
	capabilities, err := s.collectUserCapabilities(ctx, user.RoleIDs)
	if err != nil {
		s.logger.Error("Failed to collect user capabilities", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load user capabilities")
	}

	// Generate token pair
	tokenInput := auth.GenerateTokenInput{
		UserID:       user.ID,
		Username:     user.Username,
		RoleIDs:      user.RoleIDs,
		Capabilities: capabilities,
	}

	tokenPair, err := s.jwtService.GenerateTokenPair(tokenInput)
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
	}

	// Record successful login
	user.RecordLoginSuccess(input.IP)
	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to update user after successful login", zap.Error(err))
		// Don't fail the login - just log the error
	}

	s.logger.Info("User logged in successfully",
		zap.String("username", input.Username),
		zap.String("user_id", user.ID.String()))

	return &LoginResult{
		AccessToken:           tokenPair.AccessToken,
		RefreshToken:          tokenPair.RefreshToken,
		AccessTokenExpiresAt:  tokenPair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: tokenPair.RefreshTokenExpiresAt,
		TokenType:             tokenPair.TokenType,
		User:                  s.toUserInfo(user, capabilities),
	}, nil
}

// RefreshToken refreshes the access token using a valid refresh token
func (s *AuthService) RefreshToken(ctx context.Context, input RefreshTokenInput) (*RefreshTokenResult, error) {
	s.logger.Info("Token refresh attempt")

	// First, validate the refresh token to extract user info
	refreshClaims, err := s.jwtService.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		s.logger.Warn("Refresh token validation failed", zap.Error(err))
		return nil, mapTokenError(err)
	}

	// Parse user ID from refresh token claims
	userID, err := uuid.Parse(refreshClaims.UserID)
	if err != nil {
		s.logger.Error("Invalid user ID in refresh token", zap.Error(err))
		return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid user ID in token")
	}

	s.logger.Info("Token refresh for user", zap.String("user_id", userID.String()))

	// A force logout invalidates refresh tokens too
	if s.tokenBlacklist != nil {
		invalidated, err := s.tokenBlacklist.IsUserTokenInvalidated(ctx, refreshClaims.UserID, refreshClaims.GetIssuedAtTime())
		if err != nil {
			s.logger.Error("Failed to check token invalidation", zap.Error(err))
		} else if invalidated {
			return nil, shared.NewDomainError("TOKEN_INVALID", "Session has been revoked. Please log in again")
		}
	}

	// Find user to verify they still exist and are active
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		s.logger.Warn("User not found during token refresh", zap.String("user_id", userID.String()))
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	// Check if user can still access the system
	if !user.CanLogin() {
		s.logger.Warn("Token refresh for inactive user", zap.String("user_id", userID.String()))
		return nil, shared.NewDomainError("ACCOUNT_INACTIVE", "Account is no longer active")
	}

	// Load user roles
	if err := s.userRepo.LoadUserRoles(ctx, user); err != nil {
		s.logger.Error("Failed to load user roles during refresh", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load user roles")
	}

	// Collect updated capabilities so revoked grants drop out on refresh
	capabilities, err := s.collectUserCapabilities(ctx, user.RoleIDs)
	if err != nil {
		s.logger.Error("Failed to collect capabilities during refresh", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load user capabilities")
	}

	// Refresh the token pair
	tokenPair, err := s.jwtService.RefreshTokenPair(input.RefreshToken, capabilities)
	if err != nil {
		s.logger.Warn("Token refresh failed", zap.Error(err))
		return nil, mapTokenError(err)
	}

	s.logger.Info("Token refreshed successfully", zap.String("user_id", userID.String()))

	return &RefreshTokenResult{
		AccessToken:           tokenPair.AccessToken,
		RefreshToken:          tokenPair.RefreshToken,
		AccessTokenExpiresAt:  tokenPair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: tokenPair.RefreshTokenExpiresAt,
		TokenType:             tokenPair.TokenType,
	}, nil
}

// Logout revokes the caller's access token by blacklisting its JTI
// for the remaining token lifetime. Refresh tokens are not tracked
// individually; a force logout covers those.
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	s.logger.Info("User logout", zap.String("user_id", input.UserID.String()))

	if s.tokenBlacklist == nil || input.TokenJTI == "" {
		return nil
	}

	ttl := time.Until(input.TokenExpiresAt)
	if ttl <= 0 {
		// Already expired, nothing to revoke
		return nil
	}

	if err := s.tokenBlacklist.AddToBlacklist(ctx, input.TokenJTI, ttl); err != nil {
		s.logger.Error("Failed to blacklist token on logout",
			zap.String("user_id", input.UserID.String()),
			zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to revoke session")
	}

	return nil
}

// ForceLogout invalidates every session of the target user. Tokens
// issued before now are rejected by the middleware until the longest
// possible refresh token would have expired anyway.
func (s *AuthService) ForceLogout(ctx context.Context, input ForceLogoutInput) (*ForceLogoutResult, error) {
	s.logger.Info("Force logout requested",
		zap.String("admin_user_id", input.AdminUserID.String()),
		zap.String("target_user_id", input.TargetUserID.String()),
		zap.String("reason", input.Reason))

	if _, err := s.userRepo.FindByID(ctx, input.TargetUserID); err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
		}
		s.logger.Error("Failed to find user for force logout", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find user")
	}

	if s.tokenBlacklist == nil {
		return nil, shared.NewDomainError("NOT_SUPPORTED", "Session revocation is not configured")
	}

	ttl := s.jwtService.GetRefreshTokenExpiration()
	if err := s.tokenBlacklist.AddUserTokensToBlacklist(ctx, input.TargetUserID.String(), ttl); err != nil {
		s.logger.Error("Failed to invalidate user tokens", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to revoke user sessions")
	}

	return &ForceLogoutResult{Message: "All sessions for the user have been revoked"}, nil
}

// GetCurrentUser retrieves the current user's information
func (s *AuthService) GetCurrentUser(ctx context.Context, input GetCurrentUserInput) (*CurrentUserResult, error) {
	user, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	// Load roles
	if err := s.userRepo.LoadUserRoles(ctx, user); err != nil {
		s.logger.Error("Failed to load user roles", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load user roles")
	}

	// Collect capabilities
	capabilities, err := s.collectUserCapabilities(ctx, user.RoleIDs)
	if err != nil {
		s.logger.Error("Failed to collect capabilities", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load user capabilities")
	}

	return &CurrentUserResult{
		User:         s.toUserInfo(user, capabilities),
		Capabilities: capabilities,
	}, nil
}

// ChangePassword changes a user's password
func (s *AuthService) ChangePassword(ctx context.Context, input ChangePasswordInput) error {
	user, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	if err := user.ChangePassword(input.OldPassword, input.NewPassword); err != nil {
		return err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to update user after password change", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to update password")
	}

	s.logger.Info("User password changed", zap.String("user_id", input.UserID.String()))

	return nil
}

// collectUserCapabilities collects all unique capability codes from the
// user's enabled roles
func (s *AuthService) collectUserCapabilities(ctx context.Context, roleIDs []uuid.UUID) ([]string, error) {
	if len(roleIDs) == 0 {
		return []string{}, nil
	}

	// Find all roles
	roles, err := s.roleRepo.FindByIDs(ctx, roleIDs)
	if err != nil {
		return nil, err
	}

	// Collect unique capabilities
	capSet := make(map[string]struct{})
	for _, role := range roles {
		if !role.IsEnabled {
			continue
		}
		// Load capabilities for the role
		if err := s.roleRepo.LoadCapabilities(ctx, role); err != nil {
			s.logger.Warn("Failed to load capabilities for role",
				zap.String("role_id", role.ID.String()),
				zap.Error(err))
			continue
		}
		for _, code := range role.CapabilityCodes() {
			capSet[code] = struct{}{}
		}
	}

	// Convert to slice
	capabilities := make([]string, 0, len(capSet))
	for code := range capSet {
		capabilities = append(capabilities, code)
	}

	return capabilities, nil
}

func (s *AuthService) toUserInfo(user *identity.User, capabilities []string) UserInfo {
	return UserInfo{
		ID:           user.ID,
		Username:     user.Username,
		DisplayName:  user.GetDisplayNameOrUsername(),
		Email:        user.Email,
		Phone:        user.Phone,
		ZoneID:       user.ZoneID,
		GroupID:      user.GroupID,
		Capabilities: capabilities,
		RoleIDs:      user.RoleIDs,
	}
}

// mapTokenError maps JWT validation errors to domain errors
func mapTokenError(err error) error {
	switch err {
	case auth.ErrExpiredToken:
		return shared.NewDomainError("TOKEN_EXPIRED", "Refresh token has expired")
	case auth.ErrInvalidToken:
		return shared.NewDomainError("TOKEN_INVALID", "Invalid refresh token")
	case auth.ErrMaxRefreshExceeded:
		return shared.NewDomainError("TOKEN_MAX_REFRESH", "Maximum token refresh count exceeded. Please log in again")
	default:
		return shared.NewDomainError("TOKEN_ERROR", "Failed to validate refresh token")
	}
}
