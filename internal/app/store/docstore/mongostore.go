// internal/app/store/docstore/mongostore.go
package docstore

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Mongo implements Store on a MongoDB database. Each path maps to the
// collection named by its last segment; every document carries a tenant_id
// field and every operation filters on it, so a document is only ever
// reachable through its own tenant's path.
type Mongo struct {
	db     *mongo.Database
	logger *zap.Logger
}

// NewMongo creates a Mongo document store.
func NewMongo(db *mongo.Database, logger *zap.Logger) *Mongo {
	return &Mongo{db: db, logger: logger}
}

// GetDocument returns one document by id, or ErrNotFound.
func (m *Mongo) GetDocument(ctx context.Context, collectionPath, id string) (Doc, error) {
	tenant, coll, err := SplitPath(collectionPath)
	if err != nil {
		return nil, err
	}

	var doc Doc
	err = m.db.Collection(coll).FindOne(ctx, bson.M{"_id": id, "tenant_id": tenant}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	delete(doc, "tenant_id")
	return doc, nil
}

// QueryCollection runs an equality-filtered, sorted, limited query.
func (m *Mongo) QueryCollection(ctx context.Context, collectionPath string, q Query) ([]Doc, error) {
	tenant, coll, err := SplitPath(collectionPath)
	if err != nil {
		return nil, err
	}

	filter := bson.M{"tenant_id": tenant}
	for field, value := range q.Filters {
		filter[field] = value
	}

	opts := options.Find()
	if q.OrderBy != "" {
		dir := 1
		if q.Descending {
			dir = -1
		}
		opts.SetSort(bson.D{{Key: q.OrderBy, Value: dir}})
	}
	if q.Limit > 0 {
		opts.SetLimit(q.Limit)
	}

	cur, err := m.db.Collection(coll).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []Doc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	for _, d := range docs {
		delete(d, "tenant_id")
	}
	return docs, nil
}

// SetDocument writes a document under a fixed id. With merge, only the
// provided fields are updated; otherwise the document is replaced.
func (m *Mongo) SetDocument(ctx context.Context, collectionPath, id string, data Doc, merge bool) error {
	tenant, coll, err := SplitPath(collectionPath)
	if err != nil {
		return err
	}

	stamped := make(Doc, len(data)+1)
	for k, v := range data {
		if k == "_id" {
			continue
		}
		stamped[k] = v
	}
	stamped["tenant_id"] = tenant

	filter := bson.M{"_id": id, "tenant_id": tenant}
	if merge {
		_, err = m.db.Collection(coll).UpdateOne(ctx, filter,
			bson.M{"$set": stamped}, options.Update().SetUpsert(true))
		return err
	}
	stamped["_id"] = id
	_, err = m.db.Collection(coll).ReplaceOne(ctx, filter, stamped, options.Replace().SetUpsert(true))
	return err
}

// AddDocument inserts a document under a generated id and returns the id.
func (m *Mongo) AddDocument(ctx context.Context, collectionPath string, data Doc) (string, error) {
	tenant, coll, err := SplitPath(collectionPath)
	if err != nil {
		return "", err
	}

	id := primitive.NewObjectID().Hex()
	stamped := make(Doc, len(data)+2)
	for k, v := range data {
		if k == "_id" {
			continue
		}
		stamped[k] = v
	}
	stamped["_id"] = id
	stamped["tenant_id"] = tenant

	if _, err := m.db.Collection(coll).InsertOne(ctx, stamped); err != nil {
		return "", err
	}
	return id, nil
}

// DeleteDocument removes a document by id. Deleting a missing document is
// not an error.
func (m *Mongo) DeleteDocument(ctx context.Context, collectionPath, id string) error {
	tenant, coll, err := SplitPath(collectionPath)
	if err != nil {
		return err
	}
	_, err = m.db.Collection(coll).DeleteOne(ctx, bson.M{"_id": id, "tenant_id": tenant})
	return err
}
