package models

import (
	"github.com/jinzhu/gorm"
)

// Restaurant groups menu items under one venue.
type Restaurant struct {
	gorm.Model
	Name        string `gorm:"size:100;not null"`
	Description string `gorm:"size:255"`
	Address     string `gorm:"size:255"`
	Cuisine     string `gorm:"size:50"`
	IsActive    bool
}

// User represents an account that can administer restaurants and menus.
// Diners never authenticate; they are identified by opaque session ids.
type User struct {
	gorm.Model
	Email          string `gorm:"size:255;unique_index;not null"`
	HashedPassword string `gorm:"size:255;not null"`
	IsAdmin        bool
	IsActive       bool
}
