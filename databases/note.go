package databases

// go generate: mockery --name NoteDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linesmerrill/case-tracker-api/models"
)

const noteName = "notes"

// NoteDatabase contains the methods to use with the note database. Notes
// are append only so there is no update.
type NoteDatabase interface {
	FindByCase(ctx context.Context, caseID string) ([]models.Note, error)
	InsertOne(ctx context.Context, n models.Note) (InsertOneResultHelper, error)
	DeleteByCase(ctx context.Context, caseID string) (int64, error)
	EnsureIndexes(ctx context.Context) error
}

type noteDatabase struct {
	db DatabaseHelper
}

// NewNoteDatabase initializes a new instance of note database with the provided db connection
func NewNoteDatabase(db DatabaseHelper) NoteDatabase {
	return &noteDatabase{
		db: db,
	}
}

// FindByCase returns the notes of a case, oldest first
func (n *noteDatabase) FindByCase(ctx context.Context, caseID string) ([]models.Note, error) {
	var notes []models.Note
	opts := options.Find().SetSort(bson.D{{Key: "note.createdAt", Value: 1}})
	curr, err := n.db.Collection(noteName).Find(ctx, bson.M{"note.caseID": caseID}, opts)
	if err != nil {
		return nil, err
	}
	defer curr.Close(ctx)
	err = curr.All(ctx, &notes)
	if err != nil {
		return nil, err
	}
	return notes, nil
}

func (n *noteDatabase) InsertOne(ctx context.Context, note models.Note) (InsertOneResultHelper, error) {
	return n.db.Collection(noteName).InsertOne(ctx, note)
}

// DeleteByCase removes the notes of a deleted case
func (n *noteDatabase) DeleteByCase(ctx context.Context, caseID string) (int64, error) {
	return n.db.Collection(noteName).DeleteMany(ctx, bson.M{"note.caseID": caseID})
}

// EnsureIndexes covers the per-case lookup and its sort
func (n *noteDatabase) EnsureIndexes(ctx context.Context) error {
	_, err := n.db.Collection(noteName).CreateIndex(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "note.caseID", Value: 1}, {Key: "note.createdAt", Value: 1}},
		Options: options.Index().SetName("caseID_createdAt"),
	})
	return err
}
