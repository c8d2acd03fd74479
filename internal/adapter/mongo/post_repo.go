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

const postCollectionName = "posts"

type PostMongoRepository struct {
	db *mongo.Database
}

func NewPostMongoRepository(client *mongo.Client, dbName string) *PostMongoRepository {
	return &PostMongoRepository{
		db: client.Database(dbName),
	}
}

type postDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	Content   string             `bson:"content"`
	AuthorID  string             `bson:"author_id"`
	ImageURL  string             `bson:"image_url,omitempty"`
	Category  string             `bson:"category,omitempty"`
	CreatedAt primitive.DateTime `bson:"created_at"`
	UpdatedAt primitive.DateTime `bson:"updated_at"`
}

func toPostDocument(p *entity.Post) (*postDocument, error) {
	doc := &postDocument{
		Title:     p.Title,
		Content:   p.Content,
		AuthorID:  p.AuthorID,
		ImageURL:  p.ImageURL,
		Category:  p.Category,
		CreatedAt: primitive.NewDateTimeFromTime(p.CreatedAt),
		UpdatedAt: primitive.NewDateTimeFromTime(p.UpdatedAt),
	}
	if p.ID != "" {
		objID, err := primitive.ObjectIDFromHex(p.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid post ID format: %w", err)
		}
		doc.ID = objID
	}
	return doc, nil
}

func toPostEntity(doc *postDocument) *entity.Post {
	return &entity.Post{
		ID:        doc.ID.Hex(),
		Title:     doc.Title,
		Content:   doc.Content,
		AuthorID:  doc.AuthorID,
		ImageURL:  doc.ImageURL,
		Category:  doc.Category,
		CreatedAt: doc.CreatedAt.Time(),
		UpdatedAt: doc.UpdatedAt.Time(),
	}
}

func (r *PostMongoRepository) Create(ctx context.Context, post *entity.Post) (string, error) {
	doc, err := toPostDocument(post)
	if err != nil {
		return "", err
	}

	res, err := r.db.Collection(postCollectionName).InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("failed to create post in mongo: %w", err)
	}

	insertedID, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("failed to convert inserted_id to ObjectID")
	}
	return insertedID.Hex(), nil
}

func (r *PostMongoRepository) GetByID(ctx context.Context, id string) (*entity.Post, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}

	var doc postDocument
	err = r.db.Collection(postCollectionName).FindOne(ctx, bson.M{"_id": objID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get post by id from mongo: %w", err)
	}
	return toPostEntity(&doc), nil
}

func (r *PostMongoRepository) Update(ctx context.Context, post *entity.Post) error {
	doc, err := toPostDocument(post)
	if err != nil {
		return err
	}
	if doc.ID.IsZero() {
		return fmt.Errorf("post ID is required for update")
	}

	updateFields := bson.M{
		"$set": bson.M{
			"title":      doc.Title,
			"content":    doc.Content,
			"author_id":  doc.AuthorID,
			"image_url":  doc.ImageURL,
			"category":   doc.Category,
			"updated_at": doc.UpdatedAt,
		},
	}

	res, err := r.db.Collection(postCollectionName).UpdateOne(ctx, bson.M{"_id": doc.ID}, updateFields)
	if err != nil {
		return fmt.Errorf("failed to update post in mongo: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *PostMongoRepository) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return repository.ErrNotFound
	}

	res, err := r.db.Collection(postCollectionName).DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return fmt.Errorf("failed to delete post from mongo: %w", err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *PostMongoRepository) List(ctx context.Context, page, pageSize int) ([]*entity.Post, int, error) {
	skip := int64((page - 1) * pageSize)
	limit := int64(pageSize)

	findOptions := options.Find()
	findOptions.SetSkip(skip)
	findOptions.SetLimit(limit)
	findOptions.SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.db.Collection(postCollectionName).Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list posts from mongo: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []postDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("failed to decode post list from mongo: %w", err)
	}

	posts := make([]*entity.Post, len(docs))
	for i, doc := range docs {
		posts[i] = toPostEntity(&doc)
	}

	totalCount, err := r.db.Collection(postCollectionName).CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count posts in mongo: %w", err)
	}

	return posts, int(totalCount), nil
}
