package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/tamannaBithy/nutrition-coaching-server-sub001/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoPackageRepository struct {
	collection *mongo.Collection
}

func NewPackageRepository(collection *mongo.Collection) PackageRepository {
	return &mongoPackageRepository{collection: collection}
}

func (r *mongoPackageRepository) Create(ctx context.Context, pkg models.OfferedMealMenu) (models.OfferedMealMenu, error) {
	pkg.ID = primitive.NewObjectID()
	pkg.Package_id = pkg.ID.Hex()
	if pkg.Meals == nil {
		pkg.Meals = []string{}
	}
	if pkg.Tags == nil {
		pkg.Tags = []string{}
	}
	pkg.Created_at = time.Now()
	pkg.Updated_at = pkg.Created_at

	if _, err := r.collection.InsertOne(ctx, pkg); err != nil {
		return models.OfferedMealMenu{}, fmt.Errorf("insert package: %w", err)
	}
	return pkg, nil
}

func (r *mongoPackageRepository) FindByID(ctx context.Context, id string) (models.OfferedMealMenu, error) {
	var pkg models.OfferedMealMenu
	err := r.collection.FindOne(ctx, bson.M{"package_id": id}).Decode(&pkg)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.OfferedMealMenu{}, ErrNotFound
	} else if err != nil {
		return models.OfferedMealMenu{}, fmt.Errorf("find package %s: %w", id, err)
	}
	return pkg, nil
}

// AppendItem pushes atomically so concurrent appends do not overwrite each other.
func (r *mongoPackageRepository) AppendItem(ctx context.Context, packageID, itemID string) error {
	update := bson.D{
		{Key: "$push", Value: bson.D{{Key: "meals", Value: itemID}}},
		{Key: "$set", Value: bson.D{{Key: "updated_at", Value: time.Now()}}},
	}
	return r.updateOne(ctx, packageID, update)
}

func (r *mongoPackageRepository) RemoveItem(ctx context.Context, packageID, itemID string) error {
	update := bson.D{
		{Key: "$pull", Value: bson.D{{Key: "meals", Value: itemID}}},
		{Key: "$set", Value: bson.D{{Key: "updated_at", Value: time.Now()}}},
	}
	return r.updateOne(ctx, packageID, update)
}

func (r *mongoPackageRepository) Update(ctx context.Context, id string, changes PackageChanges) error {
	updateObj := bson.D{}
	if changes.Lang != nil {
		updateObj = append(updateObj, bson.E{Key: "lang", Value: *changes.Lang})
	}
	if changes.Name != nil {
		updateObj = append(updateObj, bson.E{Key: "name", Value: *changes.Name})
	}
	if changes.Tags != nil {
		updateObj = append(updateObj, bson.E{Key: "tags", Value: changes.Tags})
	}
	if changes.Price != nil {
		updateObj = append(updateObj, bson.E{Key: "price", Value: *changes.Price})
	}
	if changes.Visible != nil {
		updateObj = append(updateObj, bson.E{Key: "visible", Value: *changes.Visible})
	}
	if changes.Package_image != nil {
		updateObj = append(updateObj, bson.E{Key: "package_image", Value: *changes.Package_image})
	}
	updateObj = append(updateObj, bson.E{Key: "updated_at", Value: time.Now()})

	return r.updateOne(ctx, id, bson.D{{Key: "$set", Value: updateObj}})
}

func (r *mongoPackageRepository) updateOne(ctx context.Context, id string, update bson.D) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"package_id": id}, update)
	if err != nil {
		return fmt.Errorf("update package %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoPackageRepository) List(ctx context.Context, filter PackageFilter, skip, limit int64) ([]models.OfferedMealMenu, int64, error) {
	match := packageMatch(filter)

	total, err := r.collection.CountDocuments(ctx, match)
	if err != nil {
		return nil, 0, fmt.Errorf("count packages: %w", err)
	}

	matchStage := bson.D{{Key: "$match", Value: match}}
	sortStage := bson.D{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}}}
	skipStage := bson.D{{Key: "$skip", Value: skip}}
	limitStage := bson.D{{Key: "$limit", Value: limit}}

	cursor, err := r.collection.Aggregate(ctx, mongo.Pipeline{matchStage, sortStage, skipStage, limitStage})
	if err != nil {
		return nil, 0, fmt.Errorf("list packages: %w", err)
	}
	defer cursor.Close(ctx)

	packages := []models.OfferedMealMenu{}
	if err := cursor.All(ctx, &packages); err != nil {
		return nil, 0, fmt.Errorf("decode packages: %w", err)
	}
	return packages, total, nil
}

func (r *mongoPackageRepository) ListNames(ctx context.Context) ([]models.OfferedMealMenuName, error) {
	opts := options.Find().
		SetProjection(bson.D{{Key: "_id", Value: 0}, {Key: "package_id", Value: 1}, {Key: "name", Value: 1}}).
		SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list package names: %w", err)
	}
	defer cursor.Close(ctx)

	names := []models.OfferedMealMenuName{}
	if err := cursor.All(ctx, &names); err != nil {
		return nil, fmt.Errorf("decode package names: %w", err)
	}
	return names, nil
}

func (r *mongoPackageRepository) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"package_id": id})
	if err != nil {
		return fmt.Errorf("delete package %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func packageMatch(filter PackageFilter) bson.M {
	match := bson.M{}
	if filter.Lang != "" {
		match["lang"] = filter.Lang
	}
	if filter.VisibleOnly {
		match["visible"] = true
	}
	if filter.NameContains != "" {
		match["name"] = primitive.Regex{Pattern: regexp.QuoteMeta(filter.NameContains), Options: "i"}
	}
	return match
}
