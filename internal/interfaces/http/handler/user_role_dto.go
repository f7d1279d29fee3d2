package handler

import (
	"time"

	"github.com/google/uuid"
)

// =====================
// User Request DTOs
// =====================

// UserListQuery represents query parameters for listing users
type UserListQuery struct {
	Keyword  string `form:"keyword" binding:"omitempty"`
	Status   string `form:"status" binding:"omitempty,oneof=pending active locked deactivated"`
	RoleID   string `form:"role_id" binding:"omitempty,uuid"`
	ZoneID   string `form:"zone_id" binding:"omitempty,uuid"`
	GroupID  string `form:"group_id" binding:"omitempty,uuid"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	SortBy   string `form:"sort_by" binding:"omitempty,oneof=username email display_name created_at updated_at last_login_at"`
	SortDir  string `form:"sort_dir" binding:"omitempty,oneof=asc desc"`
}

// =====================
// User Response DTOs
// =====================

// UserResponse represents a user in API responses
type UserResponse struct {
	ID          uuid.UUID  `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email,omitempty"`
	Phone       string     `json:"phone,omitempty"`
	DisplayName string     `json:"display_name"`
	Status      string     `json:"status"`
	ZoneID      *uuid.UUID `json:"zone_id,omitempty"`
	GroupID     *uuid.UUID `json:"group_id,omitempty"`
	RoleIDs     []string   `json:"role_ids"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// UserListResponse represents a paginated list of users
type UserListResponse struct {
	Users      []UserResponse `json:"users"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalPages int            `json:"total_pages"`
}

// =====================
// Role Request DTOs
// =====================

// CreateRoleRequest represents the request body for creating a role
type CreateRoleRequest struct {
	Code         string   `json:"code" binding:"required,min=2,max=50"`
	Name         string   `json:"name" binding:"required,min=1,max=100"`
	Description  string   `json:"description" binding:"omitempty"`
	Capabilities []string `json:"capabilities" binding:"omitempty"`
}

// SetCapabilitiesRequest represents the request body for replacing a role's capabilities
type SetCapabilitiesRequest struct {
	Capabilities []string `json:"capabilities" binding:"required"`
}

// RoleListQuery represents query parameters for listing roles
type RoleListQuery struct {
	Keyword      string `form:"keyword" binding:"omitempty"`
	IsEnabled    *bool  `form:"is_enabled" binding:"omitempty"`
	IsSystemRole *bool  `form:"is_system_role" binding:"omitempty"`
	Page         int    `form:"page" binding:"omitempty,min=1"`
	PageSize     int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// =====================
// Role Response DTOs
// =====================

// RoleResponse represents a role in API responses
type RoleResponse struct {
	ID           uuid.UUID `json:"id"`
	Code         string    `json:"code"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	IsSystemRole bool      `json:"is_system_role"`
	IsEnabled    bool      `json:"is_enabled"`
	Capabilities []string  `json:"capabilities"`
	UserCount    int64     `json:"user_count,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RoleListResponse represents a paginated list of roles
type RoleListResponse struct {
	Roles      []RoleResponse `json:"roles"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalPages int            `json:"total_pages"`
}

// CapabilityListResponse lists the capability codes a role may be granted
type CapabilityListResponse struct {
	Capabilities []string `json:"capabilities"`
}
