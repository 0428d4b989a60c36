package models

import "time"

type Category struct {
	ID        string    `json:"id" gorm:"primaryKey;size:24" bson:"_id"`
	Name      string    `json:"name" gorm:"uniqueIndex;size:50;not null" bson:"name"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// MenuItem is never hard-deleted; IsActive=false hides it while keeping order history intact
type MenuItem struct {
	ID          string    `json:"id" gorm:"primaryKey;size:24" bson:"_id"`
	Name        string    `json:"name" gorm:"index;size:50;not null" bson:"name"`
	Description string    `json:"description" gorm:"size:150" bson:"description"`
	Image       string    `json:"image" bson:"image"`
	Price       float64   `json:"price" gorm:"not null" bson:"price"`
	IsVeg       bool      `json:"isVeg" bson:"isVeg"`
	CategoryID  string    `json:"categoryId" gorm:"index;size:24;not null" bson:"categoryId"`
	IsActive    bool      `json:"isActive" gorm:"index" bson:"isActive"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}

type Table struct {
	ID        string    `json:"id" gorm:"primaryKey;size:24" bson:"_id"`
	Name      string    `json:"name" gorm:"uniqueIndex;size:30;not null" bson:"name"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}
