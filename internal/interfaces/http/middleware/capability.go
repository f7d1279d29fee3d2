package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/orgstruct/backend/internal/domain/identity"
	"go.uber.org/zap"
)

// CapabilityConfig holds configuration for capability middleware
type CapabilityConfig struct {
	// Logger for middleware logging
	Logger *zap.Logger
	// OnDenied is called when the check fails (optional)
	OnDenied func(c *gin.Context, required []identity.Capability)
}

// RequireCapability creates middleware that requires a specific capability.
// Routes declare their guard with a typed constant, so a misspelled
// capability is a compile error instead of a route that denies everyone.
func RequireCapability(capability identity.Capability) gin.HandlerFunc {
	return RequireAnyCapability(capability)
}

// RequireCapabilityWithConfig creates middleware with custom config
func RequireCapabilityWithConfig(capability identity.Capability, cfg CapabilityConfig) gin.HandlerFunc {
	return RequireAnyCapabilityWithConfig(cfg, capability)
}

// RequireAnyCapability creates middleware that requires any of the specified capabilities
func RequireAnyCapability(capabilities ...identity.Capability) gin.HandlerFunc {
	return RequireAnyCapabilityWithConfig(CapabilityConfig{}, capabilities...)
}

// RequireAnyCapabilityWithConfig creates middleware that requires any of the
// specified capabilities with custom config
func RequireAnyCapabilityWithConfig(cfg CapabilityConfig, capabilities ...identity.Capability) gin.HandlerFunc {
	codes := capabilityCodes(capabilities)
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			handleCapabilityDenied(c, cfg, capabilities, "No authentication claims found")
			return
		}

		if !claims.HasAnyCapability(codes...) {
			handleCapabilityDenied(c, cfg, capabilities, "User lacks required capability")
			return
		}

		if cfg.Logger != nil {
			cfg.Logger.Debug("Capability check passed",
				zap.String("user_id", claims.UserID),
				zap.Strings("required_any", codes),
			)
		}

		c.Next()
	}
}

// RequireAllCapabilities creates middleware that requires all of the specified capabilities
func RequireAllCapabilities(capabilities ...identity.Capability) gin.HandlerFunc {
	return RequireAllCapabilitiesWithConfig(CapabilityConfig{}, capabilities...)
}

// RequireAllCapabilitiesWithConfig creates middleware that requires all
// capabilities with custom config
func RequireAllCapabilitiesWithConfig(cfg CapabilityConfig, capabilities ...identity.Capability) gin.HandlerFunc {
	codes := capabilityCodes(capabilities)
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			handleCapabilityDenied(c, cfg, capabilities, "No authentication claims found")
			return
		}

		if !claims.HasAllCapabilities(codes...) {
			handleCapabilityDenied(c, cfg, capabilities, "User lacks one or more required capabilities")
			return
		}

		if cfg.Logger != nil {
			cfg.Logger.Debug("All capabilities check passed",
				zap.String("user_id", claims.UserID),
				zap.Strings("required_all", codes),
			)
		}

		c.Next()
	}
}

// capabilityCodes converts typed capabilities to their wire codes
func capabilityCodes(capabilities []identity.Capability) []string {
	codes := make([]string, len(capabilities))
	for i, capability := range capabilities {
		codes[i] = capability.String()
	}
	return codes
}

// handleCapabilityDenied handles capability denied scenarios
func handleCapabilityDenied(c *gin.Context, cfg CapabilityConfig, required []identity.Capability, reason string) {
	if cfg.OnDenied != nil {
		cfg.OnDenied(c, required)
		return
	}

	if cfg.Logger != nil {
		claims := GetJWTClaims(c)
		userID := ""
		userCaps := []string{}
		if claims != nil {
			userID = claims.UserID
			userCaps = claims.Capabilities
		}

		cfg.Logger.Warn("Capability denied",
			zap.String("reason", reason),
			zap.String("user_id", userID),
			zap.Strings("required_capabilities", capabilityCodes(required)),
			zap.Strings("user_capabilities", userCaps),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
		)
	}

	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "ERR_FORBIDDEN",
			"message": "Access denied: insufficient capabilities",
		},
	})
}

// HasCapability is a helper function to check a capability in handlers
func HasCapability(c *gin.Context, capability identity.Capability) bool {
	claims := GetJWTClaims(c)
	if claims == nil {
		return false
	}
	return claims.HasCapability(capability.String())
}

// HasAnyCapability is a helper function to check if user has any of the capabilities
func HasAnyCapability(c *gin.Context, capabilities ...identity.Capability) bool {
	claims := GetJWTClaims(c)
	if claims == nil {
		return false
	}
	return claims.HasAnyCapability(capabilityCodes(capabilities)...)
}

// HasAllCapabilities is a helper function to check if user has all of the capabilities
func HasAllCapabilities(c *gin.Context, capabilities ...identity.Capability) bool {
	claims := GetJWTClaims(c)
	if claims == nil {
		return false
	}
	return claims.HasAllCapabilities(capabilityCodes(capabilities)...)
}

// MustHaveCapability aborts the request if the user doesn't have the capability.
// Returns true if the user has it, false if aborted.
func MustHaveCapability(c *gin.Context, capability identity.Capability) bool {
	if !HasCapability(c, capability) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ERR_FORBIDDEN",
				"message": "Access denied: insufficient capabilities",
			},
		})
		return false
	}
	return true
}
