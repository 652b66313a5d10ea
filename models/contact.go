package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Contact is an entry in the grievance officer contact directory
type Contact struct {
	ID                     primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name                   string             `json:"name" bson:"name" validate:"required"`
	Organization           string             `json:"organization" bson:"organization" validate:"required"`
	Role                   string             `json:"role" bson:"role"`
	Email                  string             `json:"email" bson:"email" validate:"required,email"`
	IsEmailActive          bool               `json:"isEmailActive" bson:"isEmailActive"`
	Phone                  string             `json:"phone,omitempty" bson:"phone,omitempty"`
	IsPhoneActive          bool               `json:"isPhoneActive" bson:"isPhoneActive"`
	PreferredContactMethod string             `json:"preferredContactMethod" bson:"preferredContactMethod" validate:"omitempty,oneof=email phone none"`
	Description            string             `json:"description,omitempty" bson:"description,omitempty"`
	Notes                  string             `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt              primitive.DateTime `json:"createdAt" bson:"createdAt"`
	UpdatedAt              primitive.DateTime `json:"updatedAt" bson:"updatedAt"`
}
