package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OfferedMeal struct {
	ID                    primitive.ObjectID `json:"-" bson:"_id"`
	Meal_id               string             `json:"meal_id" bson:"meal_id"`
	Name                  string             `json:"name" bson:"name"`
	Protein               float64            `json:"protein" bson:"protein"`
	Carbs                 float64            `json:"carbs" bson:"carbs"`
	Fat                   float64            `json:"fat" bson:"fat"`
	Calories              float64            `json:"calories" bson:"calories"`
	Ingredients           string             `json:"ingredients" bson:"ingredients"`
	Heating_instructions  string             `json:"heating_instructions" bson:"heating_instructions"`
	Image                 string             `json:"image" bson:"image"`
	Nutrition_facts_image string             `json:"nutrition_facts_image" bson:"nutrition_facts_image"`
	Created_by            string             `json:"created_by" bson:"created_by"`
	Created_at            time.Time          `json:"created_at" bson:"created_at"`
	Updated_at            time.Time          `json:"updated_at" bson:"updated_at"`
}

// Calories converts grams of macronutrients to kcal (4/4/9).
func Calories(protein, carbs, fat float64) float64 {
	return protein*4 + carbs*4 + fat*9
}
