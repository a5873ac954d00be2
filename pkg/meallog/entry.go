package meallog

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Entry is one logged meal.
type Entry struct {
	ID        string    `json:"id" bson:"_id"`
	FoodID    string    `json:"food_id" bson:"food_id"`
	FoodName  string    `json:"food_name" bson:"food_name"`
	Portion   float64   `json:"portion" bson:"portion"` // servings of the food's serving size
	OxalateMg float64   `json:"oxalate_mg" bson:"oxalate_mg"`
	Day       string    `json:"day" bson:"day"` // YYYY-MM-DD
	LoggedAt  time.Time `json:"logged_at" bson:"logged_at"`
}

// Store persists meal entries.
type Store interface {
	Add(ctx context.Context, entry Entry) error
	Remove(ctx context.Context, id string) error
	ListDay(ctx context.Context, day string) ([]Entry, error)
}

func newEntryID() string {
	return uuid.NewString()
}
