package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NewID returns a fresh 24-char hex identifier. Every backend stores ids in this form.
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// ValidID reports whether id has the shape produced by NewID
func ValidID(id string) bool {
	return primitive.IsValidObjectID(id)
}
