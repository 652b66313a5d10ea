package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// User roles
const (
	RoleSuperAdmin         = "Super Admin"
	RoleAdmin              = "Admin"
	RoleSeniorInvestigator = "Senior Investigator"
	RoleInvestigator       = "Investigator"
	RoleGuest              = "Guest"
)

// User holds the structure for the users collection in mongo
type User struct {
	ID                 primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	Username           string              `json:"username" bson:"username"`
	FirstName          string              `json:"firstName" bson:"firstName"`
	LastName           string              `json:"lastName" bson:"lastName"`
	Email              string              `json:"email" bson:"email"`
	Phone              string              `json:"phone,omitempty" bson:"phone,omitempty"`
	Department         string              `json:"department,omitempty" bson:"department,omitempty"`
	Role               string              `json:"role" bson:"role"`
	IsActive           bool                `json:"isActive" bson:"isActive"`
	PasswordHash       string              `json:"-" bson:"passwordHash"`
	NeedsPasswordReset bool                `json:"needsPasswordReset" bson:"needsPasswordReset"`
	LastLoginAt        *primitive.DateTime `json:"lastLoginAt,omitempty" bson:"lastLoginAt,omitempty"`
	CreatedAt          primitive.DateTime  `json:"createdAt" bson:"createdAt"`
	UpdatedAt          primitive.DateTime  `json:"updatedAt" bson:"updatedAt"`
}

// AssignableUser is the slim projection shown in the assignment picker
type AssignableUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// NewUserData is the payload a Super Admin submits to create an account
type NewUserData struct {
	Email     string `json:"email" validate:"required,email"`
	Username  string `json:"username" validate:"required"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Role      string `json:"role" validate:"required,oneof='Super Admin' Admin 'Senior Investigator' Investigator Guest"`
}

// ProfileUpdateData is the self-service subset of the profile
type ProfileUpdateData struct {
	FirstName  *string `json:"firstName,omitempty"`
	LastName   *string `json:"lastName,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	Department *string `json:"department,omitempty"`
}
