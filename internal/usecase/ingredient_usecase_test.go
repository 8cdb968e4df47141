package usecase

import (
	"context"
	"testing"

	"github.com/DRSN-tech/recipe-cart/internal/domain"
	"github.com/DRSN-tech/recipe-cart/pkg/e"
	"github.com/DRSN-tech/recipe-cart/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIngredientUC() (*IngredientUseCase, *fakeIngredientRepo) {
	ingredients := newFakeIngredientRepo(domain.Ingredient{RecipeID: 1, ProductID: 10, Quantity: dec("1")})
	uc := NewIngredientUC(
		ingredients,
		newFakeRecipeRepo(domain.Recipe{ID: 1, Name: "Soup"}, domain.Recipe{ID: 2, Name: "Empty"}),
		newFakeProductRepo(
			domain.Product{ID: 10, Name: "Onion", Price: dec("0.5")},
			domain.Product{ID: 20, Name: "Carrot", Price: dec("0.4")},
		),
		logger.NewNopLogger(),
	)
	return uc, ingredients
}

func TestAddIngredient(t *testing.T) {
	tests := []struct {
		name    string
		caller  domain.Caller
		req     AddIngredientReq
		wantErr error
	}{
		{
			name:   "adds product with rounded quantity",
			caller: testAdmin,
			req:    AddIngredientReq{RecipeID: 1, ProductID: 20, Quantity: dec("0.255")},
		},
		{
			name:    "user is forbidden",
			caller:  testUser,
			req:     AddIngredientReq{RecipeID: 1, ProductID: 20, Quantity: dec("1")},
			wantErr: e.ErrAdminOnly,
		},
		{
			name:    "quantity below minimum",
			caller:  testAdmin,
			req:     AddIngredientReq{RecipeID: 1, ProductID: 20, Quantity: dec("0.004")},
			wantErr: e.ErrInvalidQuantity,
		},
		{
			name:    "quantity above column range",
			caller:  testAdmin,
			req:     AddIngredientReq{RecipeID: 1, ProductID: 20, Quantity: dec("100000000")},
			wantErr: e.ErrInvalidQuantity,
		},
		{
			name:    "unknown recipe",
			caller:  testAdmin,
			req:     AddIngredientReq{RecipeID: 9, ProductID: 20, Quantity: dec("1")},
			wantErr: e.ErrRecipeNotFound,
		},
		{
			name:    "unknown product",
			caller:  testAdmin,
			req:     AddIngredientReq{RecipeID: 1, ProductID: 99, Quantity: dec("1")},
			wantErr: e.ErrUnknownProduct,
		},
		{
			name:    "product already in recipe",
			caller:  testAdmin,
			req:     AddIngredientReq{RecipeID: 1, ProductID: 10, Quantity: dec("1")},
			wantErr: e.ErrIngredientExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, _ := newIngredientUC()

			ing, err := uc.AddToRecipe(context.Background(), tt.caller, &tt.req)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "0.26", ing.Quantity.StringFixed(2))
			require.NotNil(t, ing.Product)
			assert.Equal(t, "Carrot", ing.Product.Name)
		})
	}
}

func TestAddIngredientMaxQuantity(t *testing.T) {
	uc, _ := newIngredientUC()

	ing, err := uc.AddToRecipe(context.Background(), testAdmin,
		&AddIngredientReq{RecipeID: 1, ProductID: 20, Quantity: dec("99999999.994")})
	require.NoError(t, err)
	assert.Equal(t, "99999999.99", ing.Quantity.StringFixed(2))
}

func TestListForRecipe(t *testing.T) {
	uc, _ := newIngredientUC()
	ctx := context.Background()

	list, err := uc.ListForRecipe(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = uc.ListForRecipe(ctx, 2)
	assert.ErrorIs(t, err, e.ErrNoIngredients)

	_, err = uc.ListForRecipe(ctx, 3)
	assert.ErrorIs(t, err, e.ErrRecipeNotFound)
}

func TestUpdateIngredient(t *testing.T) {
	uc, repo := newIngredientUC()
	ctx := context.Background()

	q := dec("2.5")
	updated, err := uc.UpdateIngredient(ctx, testAdmin, &UpdateIngredientReq{ID: 1, Quantity: &q})
	require.NoError(t, err)
	assert.Equal(t, "2.50", updated.Quantity.StringFixed(2))
	assert.Equal(t, "2.50", repo.ingredients[1].Quantity.StringFixed(2))

	zero := dec("0")
	_, err = uc.UpdateIngredient(ctx, testAdmin, &UpdateIngredientReq{ID: 1, Quantity: &zero})
	assert.ErrorIs(t, err, e.ErrInvalidQuantity)

	require.NoError(t, uc.DeleteIngredient(ctx, testAdmin, 1))
	assert.ErrorIs(t, uc.DeleteIngredient(ctx, testAdmin, 1), e.ErrIngredientNotFound)
}
