package domain

import "time"

// Recipe описывает рецепт, состоящий из ингредиентов
type Recipe struct {
	ID               int64
	Name             string
	Description      *string
	ImageKey         *string // ключ обложки в MinIO
	IngredientsCount int
	CreatedAt        time.Time
	UpdatedAt        *time.Time
}

func NewRecipe(name string, description *string) *Recipe {
	return &Recipe{
		Name:        name,
		Description: description,
	}
}
