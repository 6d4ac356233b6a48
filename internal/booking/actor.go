package booking

import (
	"github.com/google/uuid"

	"github.com/parkly/parking-platform/internal/model"
)

// Actor is the explicit request context threaded into every core operation:
// who calls, under which tenant, with which role. No ambient session state.
type Actor struct {
	UserID   uuid.UUID
	TenantID *uuid.UUID
	Role     model.UserRole
}

// IsStaff reports whether the actor manages a tenant (operator or admin).
func (a Actor) IsStaff() bool {
	return a.Role == model.RoleOperator || a.Role == model.RoleAdmin
}

// CanHandleVehicles reports whether the actor may record protocols.
func (a Actor) CanHandleVehicles() bool {
	return a.IsStaff() || a.Role == model.RoleDriver
}

// SameTenant reports whether the actor belongs to the given tenant.
func (a Actor) SameTenant(tenantID uuid.UUID) bool {
	return a.TenantID != nil && *a.TenantID == tenantID
}

// CanCancel: customers may cancel their own booking, staff any booking in
// their tenant.
func (a Actor) CanCancel(b *model.Booking) bool {
	if a.Role == model.RoleCustomer {
		return b.CustomerID == a.UserID
	}
	return a.IsStaff() && a.SameTenant(b.TenantID)
}

// CanView mirrors the listing scope: customers their own rows, tenant staff
// and drivers anything within the tenant.
func (a Actor) CanView(b *model.Booking) bool {
	if b.CustomerID == a.UserID {
		return true
	}
	return a.CanHandleVehicles() && a.SameTenant(b.TenantID)
}
