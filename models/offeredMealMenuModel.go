package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	LangEnglish = "en"
	LangArabic  = "ar"

	// DefaultCategory is stamped on every package until categories become editable.
	DefaultCategory = "offered meals"
)

// OfferedMealMenu is a sellable package of offered meals. Meals holds the
// meal ids in display order.
type OfferedMealMenu struct {
	ID            primitive.ObjectID `json:"-" bson:"_id"`
	Package_id    string             `json:"package_id" bson:"package_id"`
	Lang          string             `json:"lang" bson:"lang"`
	Category      string             `json:"category" bson:"category"`
	Name          string             `json:"name" bson:"name"`
	Meals         []string           `json:"meals" bson:"meals"`
	Tags          []string           `json:"tags" bson:"tags"`
	Price         float64            `json:"price" bson:"price"`
	Visible       bool               `json:"visible" bson:"visible"`
	Package_image string             `json:"package_image" bson:"package_image"`
	Created_by    string             `json:"created_by" bson:"created_by"`
	Created_at    time.Time          `json:"created_at" bson:"created_at"`
	Updated_at    time.Time          `json:"updated_at" bson:"updated_at"`
}

// OfferedMealMenuName is the lightweight projection used by selection lists.
type OfferedMealMenuName struct {
	Package_id string `json:"package_id" bson:"package_id"`
	Name       string `json:"name" bson:"name"`
}
