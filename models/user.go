package models

import (
	"time"
)

// UserRole defines allowed roles in the system
type UserRole string

const (
	RoleAdmin        UserRole = "Admin"
	RoleKitchenStaff UserRole = "KitchenStaff"
	RoleWaiter       UserRole = "Waiter"
	RoleCustomer     UserRole = "Customer"
)

// StaffRoles are the roles that operate the restaurant floor and kitchen
var StaffRoles = []UserRole{RoleAdmin, RoleKitchenStaff, RoleWaiter}

// Valid reports whether r is one of the known roles
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleKitchenStaff, RoleWaiter, RoleCustomer:
		return true
	}
	return false
}

// IsStaff reports whether r is Admin, KitchenStaff or Waiter
func (r UserRole) IsStaff() bool {
	for _, s := range StaffRoles {
		if r == s {
			return true
		}
	}
	return false
}

type User struct {
	ID           string    `json:"id" gorm:"primaryKey;size:24" bson:"_id"`
	Name         string    `json:"name" bson:"name"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null" bson:"email"`
	PasswordHash string    `json:"-" bson:"password,omitempty"`
	Role         UserRole  `json:"role" gorm:"index;size:16;not null;default:'Customer'" bson:"role"`
	ProfileImage string    `json:"profileImage,omitempty" bson:"profileImage,omitempty"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updatedAt"`
}
