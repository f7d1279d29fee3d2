package handler

import (
	"time"

	"github.com/google/uuid"
)

// =====================
// Shared structure DTOs
// =====================

// BatchUserRequest is one account in a zone or group creation batch
type BatchUserRequest struct {
	Username    string `json:"username" binding:"required,min=3,max=100"`
	Password    string `json:"password" binding:"required,min=8,max=128"`
	Email       string `json:"email" binding:"omitempty,email,max=200"`
	Phone       string `json:"phone" binding:"omitempty,max=50"`
	DisplayName string `json:"display_name" binding:"omitempty,max=200"`
}

// UserSummaryResponse is the compact user shape embedded in zone and group views
type UserSummaryResponse struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email,omitempty"`
	Status      string    `json:"status"`
}

// StructureListQuery represents common query parameters for structure listings
type StructureListQuery struct {
	Search   string `form:"search" binding:"omitempty,max=200"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by" binding:"omitempty,oneof=name created_at updated_at"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// =====================
// Zone DTOs
// =====================

// CreateZoneRequest represents the request body for creating a zone.
// The admin batch is mandatory: a zone never exists without admins.
type CreateZoneRequest struct {
	Name         string             `json:"name" binding:"required,min=2,max=200"`
	City         string             `json:"city" binding:"omitempty,max=100"`
	ContactEmail string             `json:"contact_email" binding:"omitempty,email,max=200"`
	ContactPhone string             `json:"contact_phone" binding:"omitempty,max=50"`
	Admins       []BatchUserRequest `json:"admins" binding:"required,min=1,dive"`
}

// ZoneResponse represents a zone in API responses
type ZoneResponse struct {
	ID           uuid.UUID             `json:"id"`
	Name         string                `json:"name"`
	City         string                `json:"city,omitempty"`
	ContactEmail string                `json:"contact_email,omitempty"`
	ContactPhone string                `json:"contact_phone,omitempty"`
	Admins       []UserSummaryResponse `json:"admins"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

// ZoneListResponse represents a paginated list of zones
type ZoneListResponse struct {
	Zones      []ZoneResponse `json:"zones"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalPages int            `json:"total_pages"`
}

// =====================
// Group DTOs
// =====================

// CreateGroupRequest represents the request body for creating a group.
// Members may be empty; accounts can be added to a group later.
type CreateGroupRequest struct {
	Name        string             `json:"name" binding:"required,min=2,max=200"`
	ZoneID      string             `json:"zone_id" binding:"required,uuid"`
	Description string             `json:"description" binding:"omitempty,max=500"`
	Members     []BatchUserRequest `json:"members" binding:"omitempty,dive"`
}

// GroupResponse represents a group in API responses
type GroupResponse struct {
	ID          uuid.UUID             `json:"id"`
	Name        string                `json:"name"`
	ZoneID      uuid.UUID             `json:"zone_id"`
	Description string                `json:"description,omitempty"`
	Members     []UserSummaryResponse `json:"members"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// GroupListResponse represents a paginated list of groups
type GroupListResponse struct {
	Groups     []GroupResponse `json:"groups"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	TotalPages int             `json:"total_pages"`
}

// =====================
// Sector DTOs
// =====================

// CreateSectorRequest represents the request body for creating a sector
type CreateSectorRequest struct {
	Name   string `json:"name" binding:"required,min=2,max=200"`
	Code   string `json:"code" binding:"required,min=2,max=50"`
	ZoneID string `json:"zone_id" binding:"required,uuid"`
}

// SectorListQuery represents query parameters for listing sectors
type SectorListQuery struct {
	ZoneID   string `form:"zone_id" binding:"omitempty,uuid"`
	Search   string `form:"search" binding:"omitempty,max=200"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// SectorResponse represents a sector in API responses
type SectorResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	ZoneID    uuid.UUID `json:"zone_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SectorListResponse represents a paginated list of sectors
type SectorListResponse struct {
	Sectors    []SectorResponse `json:"sectors"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalPages int              `json:"total_pages"`
}
