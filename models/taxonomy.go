package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// TaxonomyEntry holds a crime head or a reason. Both collections share the
// same shape.
type TaxonomyEntry struct {
	ID      primitive.ObjectID   `json:"_id" bson:"_id"`
	Details TaxonomyEntryDetails `json:"entry" bson:"entry"`
	Version int32                `json:"__v" bson:"__v"`
}

// TaxonomyEntryDetails holds the inner taxonomy structure
type TaxonomyEntryDetails struct {
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	Active      bool               `json:"active" bson:"active"`
	CreatedAt   primitive.DateTime `json:"createdAt" bson:"createdAt"`
	UpdatedAt   primitive.DateTime `json:"updatedAt" bson:"updatedAt"`
}
