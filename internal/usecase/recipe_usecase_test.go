package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/DRSN-tech/recipe-cart/internal/domain"
	"github.com/DRSN-tech/recipe-cart/pkg/e"
	"github.com/DRSN-tech/recipe-cart/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListRecipesPagination(t *testing.T) {
	repo := newFakeRecipeRepo()
	repo.list = []domain.Recipe{{ID: 1, Name: "Pancakes"}}
	repo.total = 31
	uc := NewRecipeUC(repo, &fakeImages{}, logger.NewNopLogger())

	res, err := uc.ListRecipes(context.Background(), &ListRecipesReq{Page: 3, IngredientsAll: []int64{4, 4, 5}})
	require.NoError(t, err)

	assert.Equal(t, PageMeta{Page: 3, PerPage: DefaultPerPage, Total: 31, LastPage: 3}, res.Meta)
	assert.Equal(t, 30, repo.filter.Offset)
	assert.Equal(t, SortNameAsc, repo.filter.Sort)
	assert.Equal(t, []int64{4, 5}, repo.filter.IngredientsAll)
}

func TestListRecipesValidation(t *testing.T) {
	uc := NewRecipeUC(newFakeRecipeRepo(), &fakeImages{}, logger.NewNopLogger())

	_, err := uc.ListRecipes(context.Background(), &ListRecipesReq{Page: -1, PerPage: 500, Sort: "price"})
	require.ErrorIs(t, err, e.ErrValidation)

	var verr *e.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "page")
	assert.Contains(t, verr.Fields, "per_page")
	assert.Contains(t, verr.Fields, "sort")
}

func TestListRecipesEmpty(t *testing.T) {
	uc := NewRecipeUC(newFakeRecipeRepo(), &fakeImages{}, logger.NewNopLogger())

	_, err := uc.ListRecipes(context.Background(), &ListRecipesReq{})
	assert.ErrorIs(t, err, e.ErrNoRecipesFound)
}

func TestCreateRecipe(t *testing.T) {
	uc := NewRecipeUC(newFakeRecipeRepo(), &fakeImages{}, logger.NewNopLogger())
	ctx := context.Background()

	_, err := uc.CreateRecipe(ctx, testUser, &CreateRecipeReq{Name: "Soup"})
	require.ErrorIs(t, err, e.ErrAdminOnly)

	_, err = uc.CreateRecipe(ctx, testAdmin, &CreateRecipeReq{Name: ""})
	require.ErrorIs(t, err, e.ErrRecipeNameRequired)

	recipe, err := uc.CreateRecipe(ctx, testAdmin, &CreateRecipeReq{Name: "  Soup "})
	require.NoError(t, err)
	assert.Equal(t, "Soup", recipe.Name)
}

func TestUploadRecipeImageReplacesOldImage(t *testing.T) {
	old := "recipes/1/old.jpg"
	repo := newFakeRecipeRepo(domain.Recipe{ID: 1, Name: "Soup", ImageKey: &old})
	images := &fakeImages{}
	uc := NewRecipeUC(repo, images, logger.NewNopLogger())

	recipe, err := uc.UploadRecipeImage(context.Background(), testAdmin, &UploadRecipeImageReq{
		RecipeID: 1,
		Image:    *NewRecipeImage([]byte{0xff, 0xd8}, "image/jpeg", 2, "soup.jpg"),
	})
	require.NoError(t, err)

	require.NotNil(t, recipe.ImageKey)
	assert.Equal(t, "recipes/1/1.jpg", *recipe.ImageKey)
	assert.Equal(t, []string{old}, images.cleaned)
}

func TestUploadRecipeImageCleansUpOnDBFailure(t *testing.T) {
	repo := newFakeRecipeRepo(domain.Recipe{ID: 1, Name: "Soup"})
	repo.keyErr = errors.New("db down")
	images := &fakeImages{}
	uc := NewRecipeUC(repo, images, logger.NewNopLogger())

	_, err := uc.UploadRecipeImage(context.Background(), testAdmin, &UploadRecipeImageReq{RecipeID: 1})
	require.Error(t, err)
	assert.Equal(t, images.uploaded, images.cleaned)
}

func TestRecipeImageURL(t *testing.T) {
	key := "recipes/2/a.jpg"
	repo := newFakeRecipeRepo(domain.Recipe{ID: 1, Name: "Soup"}, domain.Recipe{ID: 2, Name: "Stew", ImageKey: &key})
	uc := NewRecipeUC(repo, &fakeImages{}, logger.NewNopLogger())

	_, err := uc.RecipeImageURL(context.Background(), 1)
	require.ErrorIs(t, err, e.ErrImageNotFound)

	url, err := uc.RecipeImageURL(context.Background(), 2)
	require.NoError(t, err)
	assert.Contains(t, url, key)
}

func TestDeleteRecipeRemovesImage(t *testing.T) {
	key := "recipes/1/a.jpg"
	repo := newFakeRecipeRepo(domain.Recipe{ID: 1, Name: "Soup", ImageKey: &key})
	images := &fakeImages{}
	uc := NewRecipeUC(repo, images, logger.NewNopLogger())

	require.NoError(t, uc.DeleteRecipe(context.Background(), testAdmin, 1))
	assert.Equal(t, []string{key}, images.cleaned)

	err := uc.DeleteRecipe(context.Background(), testAdmin, 1)
	assert.ErrorIs(t, err, e.ErrRecipeNotFound)
}
