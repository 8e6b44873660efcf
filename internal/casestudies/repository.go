package casestudies

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	Insert(ctx context.Context, item CaseStudy) error
	FindByID(ctx context.Context, id string) (CaseStudy, error)
	FindBySlug(ctx context.Context, slug string) (CaseStudy, error)
	ExistsByTitle(ctx context.Context, title string) (bool, error)
	List(ctx context.Context) ([]CaseStudy, error)
	Update(ctx context.Context, id string, set bson.M) (CaseStudy, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Insert(ctx context.Context, item CaseStudy) error {
	_, err := r.col.InsertOne(ctx, item)
	return err
}

func (r *MongoRepository) FindByID(ctx context.Context, id string) (CaseStudy, error) {
	var item CaseStudy
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&item); err != nil {
		return CaseStudy{}, err
	}
	return item, nil
}

func (r *MongoRepository) FindBySlug(ctx context.Context, slug string) (CaseStudy, error) {
	var item CaseStudy
	if err := r.col.FindOne(ctx, bson.M{"slug": slug}).Decode(&item); err != nil {
		return CaseStudy{}, err
	}
	return item, nil
}

func (r *MongoRepository) ExistsByTitle(ctx context.Context, title string) (bool, error) {
	err := r.col.FindOne(ctx, bson.M{"title": title}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *MongoRepository) List(ctx context.Context) ([]CaseStudy, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]CaseStudy, 0)
	for cursor.Next(ctx) {
		var item CaseStudy
		if err := cursor.Decode(&item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func (r *MongoRepository) Update(ctx context.Context, id string, set bson.M) (CaseStudy, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$set": set}

	var updated CaseStudy
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&updated); err != nil {
		return CaseStudy{}, err
	}
	return updated, nil
}

func (r *MongoRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}
