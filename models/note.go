package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Note holds the structure for the notes collection in mongo. Notes are
// never updated once written.
type Note struct {
	ID      primitive.ObjectID `json:"_id" bson:"_id"`
	Details NoteDetails        `json:"note" bson:"note"`
	Version int32              `json:"__v" bson:"__v"`
}

// NoteDetails holds the inner note structure
type NoteDetails struct {
	CaseID    string             `json:"caseID" bson:"caseID"`
	Content   string             `json:"content" bson:"content"`
	Author    string             `json:"author" bson:"author"`
	CreatedAt primitive.DateTime `json:"createdAt" bson:"createdAt"`
}
