package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tamannaBithy/nutrition-coaching-server-sub001/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type mongoItemRepository struct {
	collection *mongo.Collection
}

func NewItemRepository(collection *mongo.Collection) ItemRepository {
	return &mongoItemRepository{collection: collection}
}

func (r *mongoItemRepository) Create(ctx context.Context, item models.OfferedMeal) (models.OfferedMeal, error) {
	item.ID = primitive.NewObjectID()
	item.Meal_id = item.ID.Hex()
	item.Created_at = time.Now()
	item.Updated_at = item.Created_at

	if _, err := r.collection.InsertOne(ctx, item); err != nil {
		return models.OfferedMeal{}, fmt.Errorf("insert meal: %w", err)
	}
	return item, nil
}

func (r *mongoItemRepository) FindByID(ctx context.Context, id string) (models.OfferedMeal, error) {
	var item models.OfferedMeal
	err := r.collection.FindOne(ctx, bson.M{"meal_id": id}).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.OfferedMeal{}, ErrNotFound
	} else if err != nil {
		return models.OfferedMeal{}, fmt.Errorf("find meal %s: %w", id, err)
	}
	return item, nil
}

func (r *mongoItemRepository) FindByIDs(ctx context.Context, ids []string) ([]models.OfferedMeal, error) {
	items := []models.OfferedMeal{}
	if len(ids) == 0 {
		return items, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"meal_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("find meals: %w", err)
	}
	defer cursor.Close(ctx)

	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode meals: %w", err)
	}
	return items, nil
}

func (r *mongoItemRepository) Update(ctx context.Context, id string, changes ItemChanges) error {
	updateObj := bson.D{}
	if changes.Name != nil {
		updateObj = append(updateObj, bson.E{Key: "name", Value: *changes.Name})
	}
	if changes.Protein != nil {
		updateObj = append(updateObj, bson.E{Key: "protein", Value: *changes.Protein})
	}
	if changes.Carbs != nil {
		updateObj = append(updateObj, bson.E{Key: "carbs", Value: *changes.Carbs})
	}
	if changes.Fat != nil {
		updateObj = append(updateObj, bson.E{Key: "fat", Value: *changes.Fat})
	}
	if changes.Ingredients != nil {
		updateObj = append(updateObj, bson.E{Key: "ingredients", Value: *changes.Ingredients})
	}
	if changes.Heating_instructions != nil {
		updateObj = append(updateObj, bson.E{Key: "heating_instructions", Value: *changes.Heating_instructions})
	}
	if changes.Image != nil {
		updateObj = append(updateObj, bson.E{Key: "image", Value: *changes.Image})
	}
	if changes.Nutrition_facts_image != nil {
		updateObj = append(updateObj, bson.E{Key: "nutrition_facts_image", Value: *changes.Nutrition_facts_image})
	}
	updateObj = append(updateObj, bson.E{Key: "updated_at", Value: time.Now()})

	result, err := r.collection.UpdateOne(ctx, bson.M{"meal_id": id}, bson.D{{Key: "$set", Value: updateObj}})
	if err != nil {
		return fmt.Errorf("update meal %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoItemRepository) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"meal_id": id})
	if err != nil {
		return fmt.Errorf("delete meal %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
