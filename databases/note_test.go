package databases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/linesmerrill/case-tracker-api/databases"
	"github.com/linesmerrill/case-tracker-api/databases/mocks"
	"github.com/linesmerrill/case-tracker-api/models"
)

func TestNoteDatabase_FindByCase(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}
	cursor := &mocks.CursorHelper{}

	cursor.On("All", context.Background(), mock.Anything).
		Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(1).(*[]models.Note)
		*arg = []models.Note{{Details: models.NoteDetails{CaseID: "c1", Content: "visited scene"}}}
	})
	cursor.On("Close", context.Background()).Return(nil)

	collectionHelper.On("Find", context.Background(), bson.M{"note.caseID": "c1"}, mock.Anything).
		Return(cursor, nil)
	collectionHelper.On("Find", context.Background(), bson.M{"note.caseID": "broken"}, mock.Anything).
		Return(nil, errors.New("mocked-error"))
	dbHelper.On("Collection", "notes").Return(collectionHelper)

	noteDba := databases.NewNoteDatabase(dbHelper)

	notes, err := noteDba.FindByCase(context.Background(), "c1")
	assert.NoError(t, err)
	assert.Len(t, notes, 1)
	assert.Equal(t, "visited scene", notes[0].Details.Content)

	notes, err = noteDba.FindByCase(context.Background(), "broken")
	assert.Empty(t, notes)
	assert.EqualError(t, err, "mocked-error")
}

func TestNoteDatabase_DeleteByCase(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}

	collectionHelper.On("DeleteMany", context.Background(), bson.M{"note.caseID": "c1"}).Return(int64(3), nil)
	dbHelper.On("Collection", "notes").Return(collectionHelper)

	n, err := databases.NewNoteDatabase(dbHelper).DeleteByCase(context.Background(), "c1")
	assert.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestNoteDatabase_EnsureIndexes(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}

	collectionHelper.On("CreateIndex", context.Background(), mock.MatchedBy(func(m mongo.IndexModel) bool {
		keys, ok := m.Keys.(bson.D)
		return ok && len(keys) == 2 && keys[0].Key == "note.caseID" && *m.Options.Name == "caseID_createdAt"
	})).Return("caseID_createdAt", nil)
	dbHelper.On("Collection", "notes").Return(collectionHelper)

	assert.NoError(t, databases.NewNoteDatabase(dbHelper).EnsureIndexes(context.Background()))
	collectionHelper.AssertExpectations(t)
}
