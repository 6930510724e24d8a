package repository

import (
	"context"
	"fmt"
	"sort"
	"time"

	"plant-store/internal/domain"
	"plant-store/internal/query"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// PlantsCollection is the collection holding plant documents.
const PlantsCollection = "plants"

// plantDocument is the stored shape of a plant. InStock is a pointer so a
// document written without the field reads back as in stock.
type plantDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Price       float64            `bson:"price"`
	Categories  []string           `bson:"categories"`
	InStock     *bool              `bson:"inStock,omitempty"`
	Description string             `bson:"description"`
	Image       string             `bson:"image"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func (d plantDocument) toDomain() domain.Plant {
	inStock := d.InStock == nil || *d.InStock
	categories := d.Categories
	if categories == nil {
		categories = []string{}
	}
	return domain.Plant{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Price:       d.Price,
		Categories:  categories,
		InStock:     inStock,
		Description: d.Description,
		Image:       d.Image,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

type mongoPlantRepository struct {
	plants *mongo.Collection
}

// NewMongoPlantRepository creates a PlantRepository backed by a MongoDB database
func NewMongoPlantRepository(db *mongo.Database) PlantRepository {
	return &mongoPlantRepository{plants: db.Collection(PlantsCollection)}
}

// Create inserts a new plant document
func (r *mongoPlantRepository) Create(ctx context.Context, plant *domain.Plant) error {
	inStock := plant.InStock
	doc := plantDocument{
		Name:        plant.Name,
		Price:       plant.Price,
		Categories:  plant.Categories,
		InStock:     &inStock,
		Description: plant.Description,
		Image:       plant.Image,
		CreatedAt:   plant.CreatedAt,
		UpdatedAt:   plant.UpdatedAt,
	}

	result, err := r.plants.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("failed to create plant: %w", err)
	}

	id, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("failed to create plant: unexpected id type %T", result.InsertedID)
	}
	plant.ID = id.Hex()

	return nil
}

// List retrieves every plant document matching the predicate
func (r *mongoPlantRepository) List(ctx context.Context, predicate query.Predicate) ([]domain.Plant, error) {
	cursor, err := r.plants.Find(ctx, predicate.BSON())
	if err != nil {
		return nil, fmt.Errorf("failed to list plants: %w", err)
	}

	var docs []plantDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode plants: %w", err)
	}

	plants := make([]domain.Plant, 0, len(docs))
	for _, doc := range docs {
		plants = append(plants, doc.toDomain())
	}

	return plants, nil
}

// Categories retrieves the distinct category values
func (r *mongoPlantRepository) Categories(ctx context.Context) ([]string, error) {
	values, err := r.distinctStrings(ctx, "categories", bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	sort.Strings(values)
	return values, nil
}

// ImageRefs retrieves every image reference in use
func (r *mongoPlantRepository) ImageRefs(ctx context.Context) ([]string, error) {
	values, err := r.distinctStrings(ctx, "image", bson.M{"image": bson.M{"$nin": bson.A{"", nil}}})
	if err != nil {
		return nil, fmt.Errorf("failed to list image references: %w", err)
	}
	return values, nil
}

// DeleteAll removes every plant document
func (r *mongoPlantRepository) DeleteAll(ctx context.Context) (int64, error) {
	result, err := r.plants.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to delete plants: %w", err)
	}
	return result.DeletedCount, nil
}

func (r *mongoPlantRepository) Ping(ctx context.Context) error {
	return r.plants.Database().Client().Ping(ctx, nil)
}

func (r *mongoPlantRepository) distinctStrings(ctx context.Context, field string, filter bson.M) ([]string, error) {
	raw, err := r.plants.Distinct(ctx, field, filter)
	if err != nil {
		return nil, err
	}

	values := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			values = append(values, s)
		}
	}
	return values, nil
}
