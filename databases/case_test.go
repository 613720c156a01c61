package databases_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/linesmerrill/case-tracker-api/config"
	"github.com/linesmerrill/case-tracker-api/databases"
	"github.com/linesmerrill/case-tracker-api/databases/mocks"
	"github.com/linesmerrill/case-tracker-api/models"
)

var mockedID = primitive.NewObjectID()

func TestNewCaseDatabase(t *testing.T) {
	_ = os.Setenv("DB_URI", "mongodb://127.0.0.1:27017")
	_ = os.Setenv("DB_NAME", "test")
	conf := config.New()

	dbClient, err := databases.NewClient(conf)
	assert.NoError(t, err)

	db := databases.NewDatabase(conf, dbClient)

	caseDB := databases.NewCaseDatabase(db)

	assert.NotEmpty(t, caseDB)
}

func TestCaseDatabase_FindOne(t *testing.T) {

	// define variables for interfaces
	var dbHelper databases.DatabaseHelper
	var collectionHelper databases.CollectionHelper
	var srHelperErr databases.SingleResultHelper
	var srHelperCorrect databases.SingleResultHelper

	// set interfaces implementation to mocked structures
	dbHelper = &mocks.DatabaseHelper{}
	collectionHelper = &mocks.CollectionHelper{}
	srHelperErr = &mocks.SingleResultHelper{}
	srHelperCorrect = &mocks.SingleResultHelper{}

	srHelperErr.(*mocks.SingleResultHelper).
		On("Decode", mock.Anything).
		Return(errors.New("mocked-error"))

	srHelperCorrect.(*mocks.SingleResultHelper).
		On("Decode", mock.Anything).
		Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.Case)
		(*arg).ID = mockedID
	})

	collectionHelper.(*mocks.CollectionHelper).
		On("FindOne", context.Background(), bson.M{"error": true}).
		Return(srHelperErr)

	collectionHelper.(*mocks.CollectionHelper).
		On("FindOne", context.Background(), bson.M{"error": false}).
		Return(srHelperCorrect)

	dbHelper.(*mocks.DatabaseHelper).
		On("Collection", "cases").Return(collectionHelper)

	// Create new database with mocked Database interface
	caseDba := databases.NewCaseDatabase(dbHelper)

	// Call method with defined filter, that in our mocked function returns
	// mocked-error
	c, err := caseDba.FindOne(context.Background(), bson.M{"error": true})

	assert.Empty(t, c)
	assert.EqualError(t, err, "mocked-error")

	// Now call the same function with different filter for correct
	// result
	c, err = caseDba.FindOne(context.Background(), bson.M{"error": false})

	assert.Equal(t, &models.Case{ID: mockedID}, c)
	assert.NoError(t, err)
}

func TestCaseDatabase_Find(t *testing.T) {
	var dbHelper databases.DatabaseHelper
	var collectionHelper databases.CollectionHelper
	var cursorCorrect databases.CursorHelper

	dbHelper = &mocks.DatabaseHelper{}
	collectionHelper = &mocks.CollectionHelper{}
	cursorCorrect = &mocks.CursorHelper{}

	cursorCorrect.(*mocks.CursorHelper).
		On("All", context.Background(), mock.Anything).
		Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(1).(*[]models.Case)
		*arg = []models.Case{{ID: mockedID}}
	})
	cursorCorrect.(*mocks.CursorHelper).
		On("Close", context.Background()).
		Return(nil)

	collectionHelper.(*mocks.CollectionHelper).
		On("Find", context.Background(), bson.M{"error": true}).
		Return(nil, errors.New("mocked-error"))

	collectionHelper.(*mocks.CollectionHelper).
		On("Find", context.Background(), bson.M{"error": false}).
		Return(cursorCorrect, nil)

	dbHelper.(*mocks.DatabaseHelper).
		On("Collection", "cases").Return(collectionHelper)

	caseDba := databases.NewCaseDatabase(dbHelper)

	cases, err := caseDba.Find(context.Background(), bson.M{"error": true})
	assert.Empty(t, cases)
	assert.EqualError(t, err, "mocked-error")

	cases, err = caseDba.Find(context.Background(), bson.M{"error": false})
	assert.Equal(t, []models.Case{{ID: mockedID}}, cases)
	assert.NoError(t, err)
	cursorCorrect.(*mocks.CursorHelper).AssertCalled(t, "Close", context.Background())
}

func TestCaseDatabase_InsertOneDuplicate(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}

	dup := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key error"}}}
	collectionHelper.On("InsertOne", context.Background(), mock.Anything).Return(nil, dup)
	dbHelper.On("Collection", "cases").Return(collectionHelper)

	_, err := databases.NewCaseDatabase(dbHelper).InsertOne(context.Background(), models.Case{ID: mockedID})
	assert.ErrorIs(t, err, databases.ErrDuplicateCase)
}

func TestCaseDatabase_UpdateOne(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}

	collectionHelper.On("UpdateOne", context.Background(), bson.M{"_id": "missing"}, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 0}, nil)
	collectionHelper.On("UpdateOne", context.Background(), bson.M{"_id": "found"}, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil)
	dbHelper.On("Collection", "cases").Return(collectionHelper)

	caseDba := databases.NewCaseDatabase(dbHelper)

	err := caseDba.UpdateOne(context.Background(), bson.M{"_id": "missing"}, bson.M{"$set": bson.M{}})
	assert.ErrorIs(t, err, mongo.ErrNoDocuments)

	err = caseDba.UpdateOne(context.Background(), bson.M{"_id": "found"}, bson.M{"$set": bson.M{}})
	assert.NoError(t, err)
}

func TestCaseDatabase_EnsureIndexes(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}

	collectionHelper.On("CreateIndex", context.Background(), mock.MatchedBy(func(m mongo.IndexModel) bool {
		return *m.Options.Unique && *m.Options.Name == "caseNo_year_unique"
	})).Return("caseNo_year_unique", nil)
	dbHelper.On("Collection", "cases").Return(collectionHelper)

	assert.NoError(t, databases.NewCaseDatabase(dbHelper).EnsureIndexes(context.Background()))
	collectionHelper.AssertExpectations(t)
}
