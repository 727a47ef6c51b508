package dto

import "github.com/ahmetcoskunkizilkaya/storefront-backend/internal/models"

// AddressInput carries only the address fields being changed.
type AddressInput struct {
	Street  *string `json:"street"`
	City    *string `json:"city"`
	State   *string `json:"state"`
	ZipCode *string `json:"zipCode"`
	Country *string `json:"country"`
}

func (a *AddressInput) MergeInto(addr models.Address) models.Address {
	if a == nil {
		return addr
	}
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&addr.Street, a.Street)
	set(&addr.City, a.City)
	set(&addr.State, a.State)
	set(&addr.ZipCode, a.ZipCode)
	set(&addr.Country, a.Country)
	return addr
}

type UpdateUserRequest struct {
	Username        *string       `json:"username"`
	Phone           *string       `json:"phone"`
	Address         *AddressInput `json:"address"`
	Role            *string       `json:"role" validate:"omitempty,oneof=user admin super_admin"`
	IsActive        *bool         `json:"isActive"`
	IsEmailVerified *bool         `json:"isEmailVerified"`
}

// HasPrivilegedFields reports whether the request touches admin-only fields.
func (r *UpdateUserRequest) HasPrivilegedFields() bool {
	return r.Role != nil || r.IsActive != nil || r.IsEmailVerified != nil
}
