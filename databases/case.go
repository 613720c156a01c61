package databases

// go generate: mockery --name CaseDatabase

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linesmerrill/case-tracker-api/models"
)

const caseName = "cases"

// ErrDuplicateCase is returned when a case number is already used for the
// same year
var ErrDuplicateCase = errors.New("a case with this number already exists for the year")

// CaseDatabase contains the methods to use with the case database
type CaseDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Case, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Case, error)
	InsertOne(ctx context.Context, c models.Case) (InsertOneResultHelper, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error
	DeleteOne(ctx context.Context, filter interface{}) (int64, error)
	CountDocuments(ctx context.Context, filter interface{}) (int64, error)
	EnsureIndexes(ctx context.Context) error
}

type caseDatabase struct {
	db DatabaseHelper
}

// NewCaseDatabase initializes a new instance of case database with the provided db connection
func NewCaseDatabase(db DatabaseHelper) CaseDatabase {
	return &caseDatabase{
		db: db,
	}
}

func (c *caseDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Case, error) {
	kase := &models.Case{}
	err := c.db.Collection(caseName).FindOne(ctx, filter, opts...).Decode(&kase)
	if err != nil {
		return nil, err
	}
	return kase, nil
}

func (c *caseDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Case, error) {
	var cases []models.Case
	curr, err := c.db.Collection(caseName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer curr.Close(ctx)
	err = curr.All(ctx, &cases)
	if err != nil {
		return nil, err
	}
	return cases, nil
}

func (c *caseDatabase) InsertOne(ctx context.Context, kase models.Case) (InsertOneResultHelper, error) {
	res, err := c.db.Collection(caseName).InsertOne(ctx, kase)
	if mongo.IsDuplicateKeyError(err) {
		return nil, ErrDuplicateCase
	}
	return res, err
}

func (c *caseDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error {
	res, err := c.db.Collection(caseName).UpdateOne(ctx, filter, update, opts...)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateCase
	}
	if err != nil {
		return err
	}
	if res != nil && res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (c *caseDatabase) DeleteOne(ctx context.Context, filter interface{}) (int64, error) {
	return c.db.Collection(caseName).DeleteOne(ctx, filter)
}

func (c *caseDatabase) CountDocuments(ctx context.Context, filter interface{}) (int64, error) {
	return c.db.Collection(caseName).CountDocuments(ctx, filter)
}

// EnsureIndexes makes case number and year unique together
func (c *caseDatabase) EnsureIndexes(ctx context.Context) error {
	_, err := c.db.Collection(caseName).CreateIndex(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "case.caseNo", Value: 1}, {Key: "case.year", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("caseNo_year_unique"),
	})
	return err
}
