package models

import "gorm.io/gorm"

// User is an operator account for the protected admin surface.
type User struct {
	gorm.Model
	Name     string `json:"name"`
	Email    string `json:"email" gorm:"unique"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Role     string `json:"role"` // "staff", "admin"
}
