package models

import "time"

// Cart is the per-user staging area; UserID is unique so each user owns at most one
type Cart struct {
	ID        string     `json:"id" gorm:"primaryKey;size:24" bson:"_id"`
	UserID    string     `json:"userId" gorm:"uniqueIndex;size:24;not null" bson:"userId"`
	Items     []CartItem `json:"items" gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" bson:"items"`
	CreatedAt time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt" bson:"updatedAt"`
}

type CartItem struct {
	ID         uint   `json:"-" gorm:"primaryKey" bson:"-"`
	CartID     string `json:"-" gorm:"index;size:24" bson:"-"`
	MenuItemID string `json:"menuItemId" gorm:"size:24;not null" bson:"menuItemId"`
	Quantity   int    `json:"quantity" gorm:"not null" bson:"quantity"`
}

// Line returns the index of the line for menuItemID, or -1
func (c *Cart) Line(menuItemID string) int {
	for i, it := range c.Items {
		if it.MenuItemID == menuItemID {
			return i
		}
	}
	return -1
}
