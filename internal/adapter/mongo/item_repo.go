package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shazamohamed705/layatofk-master88-sub001/internal/entity"
	"github.com/shazamohamed705/layatofk-master88-sub001/internal/port/repository"
)

const itemCollectionName = "items"

type ItemMongoRepository struct {
	db *mongo.Database
}

func NewItemMongoRepository(client *mongo.Client, dbName string) *ItemMongoRepository {
	return &ItemMongoRepository{
		db: client.Database(dbName),
	}
}

type itemDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	PriceLabel  string             `bson:"price_label"`
	Location    string             `bson:"location"`
	PostedLabel string             `bson:"posted_label"`
	PostedAt    primitive.DateTime `bson:"posted_at"`
	CategoryID  string             `bson:"category_id"`
	ImageURL    string             `bson:"image_url,omitempty"`
	Condition   string             `bson:"condition,omitempty"`
}

func toItemEntity(doc *itemDocument) *entity.Item {
	return &entity.Item{
		ID:          doc.ID.Hex(),
		Title:       doc.Title,
		PriceLabel:  doc.PriceLabel,
		Location:    doc.Location,
		PostedLabel: doc.PostedLabel,
		PostedAt:    doc.PostedAt.Time(),
		CategoryID:  doc.CategoryID,
		ImageURL:    doc.ImageURL,
		Condition:   doc.Condition,
	}
}

func (r *ItemMongoRepository) List(ctx context.Context) ([]*entity.Item, error) {
	findOptions := options.Find()
	findOptions.SetSort(bson.D{{Key: "posted_at", Value: -1}})

	cursor, err := r.db.Collection(itemCollectionName).Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to list items from mongo: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []itemDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode item list from mongo: %w", err)
	}

	items := make([]*entity.Item, len(docs))
	for i, doc := range docs {
		items[i] = toItemEntity(&doc)
	}
	return items, nil
}

func (r *ItemMongoRepository) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}

	var doc itemDocument
	err = r.db.Collection(itemCollectionName).FindOne(ctx, bson.M{"_id": objID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get item by id from mongo: %w", err)
	}
	return toItemEntity(&doc), nil
}
