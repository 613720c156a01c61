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

func TestUserDatabase_FindOne(t *testing.T) {

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
		arg := args.Get(0).(**models.User)
		(*arg).ID = mockedID
		(*arg).Details.Role = models.RoleSuperAdmin
	})

	collectionHelper.(*mocks.CollectionHelper).
		On("FindOne", context.Background(), bson.M{"error": true}).
		Return(srHelperErr)

	collectionHelper.(*mocks.CollectionHelper).
		On("FindOne", context.Background(), bson.M{"error": false}).
		Return(srHelperCorrect)

	dbHelper.(*mocks.DatabaseHelper).
		On("Collection", "users").Return(collectionHelper)

	userDba := databases.NewUserDatabase(dbHelper)

	user, err := userDba.FindOne(context.Background(), bson.M{"error": true})

	assert.Empty(t, user)
	assert.EqualError(t, err, "mocked-error")

	user, err = userDba.FindOne(context.Background(), bson.M{"error": false})

	assert.Equal(t, &models.User{ID: mockedID, Details: models.UserDetails{Role: models.RoleSuperAdmin}}, user)
	assert.NoError(t, err)
}

func TestUserDatabase_CountDocuments(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}

	collectionHelper.On("CountDocuments", context.Background(), bson.M{"user.email": "a@b.c"}).Return(int64(1), nil)
	dbHelper.On("Collection", "users").Return(collectionHelper)

	n, err := databases.NewUserDatabase(dbHelper).CountDocuments(context.Background(), bson.M{"user.email": "a@b.c"})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestUserDatabase_DuplicateEmail(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}

	dup := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key error"}}}
	collectionHelper.On("InsertOne", context.Background(), mock.Anything).Return(nil, dup)
	collectionHelper.On("UpdateOne", context.Background(), mock.Anything, mock.Anything).Return(nil, dup)
	dbHelper.On("Collection", "users").Return(collectionHelper)

	db := databases.NewUserDatabase(dbHelper)
	_, err := db.InsertOne(context.Background(), models.User{})
	assert.ErrorIs(t, err, databases.ErrDuplicateUser)
	err = db.UpdateOne(context.Background(), bson.M{"_id": "x"}, bson.M{"$set": bson.M{"user.email": "a@example.com"}})
	assert.ErrorIs(t, err, databases.ErrDuplicateUser)
}

func TestUserDatabase_EnsureIndexes(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}

	collectionHelper.On("CreateIndex", context.Background(), mock.MatchedBy(func(m mongo.IndexModel) bool {
		return *m.Options.Unique && *m.Options.Name == "email_unique"
	})).Return("email_unique", nil)
	dbHelper.On("Collection", "users").Return(collectionHelper)

	assert.NoError(t, databases.NewUserDatabase(dbHelper).EnsureIndexes(context.Background()))
	collectionHelper.AssertExpectations(t)
}
