package databases

// go generate: mockery --name TaxonomyDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linesmerrill/case-tracker-api/models"
)

const (
	crimeHeadName = "crimeheads"
	reasonName    = "reasons"
)

// TaxonomyDatabase contains the methods to use with a taxonomy collection
// such as crime heads or reasons
type TaxonomyDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.TaxonomyEntry, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.TaxonomyEntry, error)
	InsertOne(ctx context.Context, e models.TaxonomyEntry) (InsertOneResultHelper, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}) error
	DeleteOne(ctx context.Context, filter interface{}) (int64, error)
}

type taxonomyDatabase struct {
	db         DatabaseHelper
	collection string
}

// NewCrimeHeadDatabase initializes the crime head taxonomy
func NewCrimeHeadDatabase(db DatabaseHelper) TaxonomyDatabase {
	return &taxonomyDatabase{db: db, collection: crimeHeadName}
}

// NewReasonDatabase initializes the reason taxonomy
func NewReasonDatabase(db DatabaseHelper) TaxonomyDatabase {
	return &taxonomyDatabase{db: db, collection: reasonName}
}

func (t *taxonomyDatabase) FindOne(ctx context.Context, filter interface{}) (*models.TaxonomyEntry, error) {
	entry := &models.TaxonomyEntry{}
	err := t.db.Collection(t.collection).FindOne(ctx, filter).Decode(&entry)
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (t *taxonomyDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.TaxonomyEntry, error) {
	var entries []models.TaxonomyEntry
	if len(opts) == 0 {
		opts = append(opts, options.Find().SetSort(bson.D{{Key: "entry.name", Value: 1}}))
	}
	curr, err := t.db.Collection(t.collection).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer curr.Close(ctx)
	err = curr.All(ctx, &entries)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (t *taxonomyDatabase) InsertOne(ctx context.Context, e models.TaxonomyEntry) (InsertOneResultHelper, error) {
	return t.db.Collection(t.collection).InsertOne(ctx, e)
}

func (t *taxonomyDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}) error {
	res, err := t.db.Collection(t.collection).UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res != nil && res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (t *taxonomyDatabase) DeleteOne(ctx context.Context, filter interface{}) (int64, error) {
	return t.db.Collection(t.collection).DeleteOne(ctx, filter)
}
