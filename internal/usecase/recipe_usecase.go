package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/DRSN-tech/recipe-cart/internal/domain"
	"github.com/DRSN-tech/recipe-cart/pkg/e"
	"github.com/DRSN-tech/recipe-cart/pkg/logger"
)

// RecipeUseCase реализует каталог рецептов и управление их обложками.
type RecipeUseCase struct {
	recipeRepo  RecipeRepository
	imagesInfra ImagesInfra
	logger      logger.Logger
}

func NewRecipeUC(recipeRepo RecipeRepository, imagesInfra ImagesInfra, logger logger.Logger) *RecipeUseCase {
	return &RecipeUseCase{
		recipeRepo:  recipeRepo,
		imagesInfra: imagesInfra,
		logger:      logger,
	}
}

func (r *RecipeUseCase) CreateRecipe(ctx context.Context, caller domain.Caller, req *CreateRecipeReq) (*domain.Recipe, error) {
	const op = "RecipeUseCase.CreateRecipe"

	if !caller.IsAdmin() {
		return nil, e.Wrap(op, e.ErrAdminOnly)
	}

	name := strings.TrimSpace(req.Name)
	if name == "" || len(name) > maxNameLength {
		return nil, e.Wrap(op, e.ErrRecipeNameRequired)
	}

	recipe, err := r.recipeRepo.Create(ctx, domain.NewRecipe(name, req.Description))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	r.logger.Infof("recipe created: recipe_id=%d name=%s", recipe.ID, recipe.Name)

	return recipe, nil
}

func (r *RecipeUseCase) UpdateRecipe(ctx context.Context, caller domain.Caller, req *UpdateRecipeReq) (*domain.Recipe, error) {
	const op = "RecipeUseCase.UpdateRecipe"

	if !caller.IsAdmin() {
		return nil, e.Wrap(op, e.ErrAdminOnly)
	}

	recipe, err := r.recipeRepo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" || len(name) > maxNameLength {
			return nil, e.Wrap(op, e.ErrRecipeNameRequired)
		}
		recipe.Name = name
	}
	if req.Description != nil {
		recipe.Description = req.Description
	}

	updated, err := r.recipeRepo.Update(ctx, recipe)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return updated, nil
}

// DeleteRecipe удаляет рецепт вместе с ингредиентами и обложкой.
func (r *RecipeUseCase) DeleteRecipe(ctx context.Context, caller domain.Caller, id int64) error {
	const op = "RecipeUseCase.DeleteRecipe"

	if !caller.IsAdmin() {
		return e.Wrap(op, e.ErrAdminOnly)
	}

	recipe, err := r.recipeRepo.GetByID(ctx, id)
	if err != nil {
		return e.Wrap(op, err)
	}

	if err := r.recipeRepo.Delete(ctx, id); err != nil {
		return e.Wrap(op, err)
	}

	if recipe.ImageKey != nil {
		r.imagesInfra.CleanupImages([]string{*recipe.ImageKey})
	}

	return nil
}

func (r *RecipeUseCase) GetRecipe(ctx context.Context, id int64) (*domain.Recipe, error) {
	const op = "RecipeUseCase.GetRecipe"

	recipe, err := r.recipeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return recipe, nil
}

// ListRecipes возвращает страницу рецептов по фильтрам.
func (r *RecipeUseCase) ListRecipes(ctx context.Context, req *ListRecipesReq) (*ListRecipesRes, error) {
	const op = "RecipeUseCase.ListRecipes"

	filter, err := newRecipeFilter(req)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	recipes, total, err := r.recipeRepo.List(ctx, filter)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if len(recipes) == 0 {
		return nil, e.Wrap(op, e.ErrNoRecipesFound)
	}

	lastPage := (total + filter.Limit - 1) / filter.Limit
	if lastPage < 1 {
		lastPage = 1
	}

	return &ListRecipesRes{
		Recipes: recipes,
		Meta: PageMeta{
			Page:     filter.Offset/filter.Limit + 1,
			PerPage:  filter.Limit,
			Total:    total,
			LastPage: lastPage,
		},
	}, nil
}

// UploadRecipeImage загружает новую обложку рецепта и удаляет предыдущую.
func (r *RecipeUseCase) UploadRecipeImage(ctx context.Context, caller domain.Caller, req *UploadRecipeImageReq) (*domain.Recipe, error) {
	const op = "RecipeUseCase.UploadRecipeImage"

	if !caller.IsAdmin() {
		return nil, e.Wrap(op, e.ErrAdminOnly)
	}

	recipe, err := r.recipeRepo.GetByID(ctx, req.RecipeID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	key, err := r.imagesInfra.UploadImage(ctx, NewUploadImageReq(fmt.Sprintf("recipes/%d", recipe.ID), req.Image))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if err := r.recipeRepo.SetImageKey(ctx, recipe.ID, &key); err != nil {
		r.logger.Warnf("Cleaning up orphaned image after db failure. recipe_id: %d, error: %v", recipe.ID, e.Wrap(op, err))
		r.imagesInfra.CleanupImages([]string{key})
		return nil, e.Wrap(op, err)
	}

	if recipe.ImageKey != nil && *recipe.ImageKey != key {
		r.imagesInfra.CleanupImages([]string{*recipe.ImageKey})
	}
	recipe.ImageKey = &key

	return recipe, nil
}

// RecipeImageURL возвращает временную ссылку на обложку рецепта.
func (r *RecipeUseCase) RecipeImageURL(ctx context.Context, id int64) (string, error) {
	const op = "RecipeUseCase.RecipeImageURL"

	recipe, err := r.recipeRepo.GetByID(ctx, id)
	if err != nil {
		return "", e.Wrap(op, err)
	}

	if recipe.ImageKey == nil {
		return "", e.Wrap(op, e.ErrImageNotFound)
	}

	url, err := r.imagesInfra.PresignedURL(ctx, *recipe.ImageKey)
	if err != nil {
		return "", e.Wrap(op, err)
	}

	return url, nil
}

// newRecipeFilter нормализует параметры пагинации и сортировки.
func newRecipeFilter(req *ListRecipesReq) (*RecipeFilter, error) {
	verr := e.NewValidationError()

	page := req.Page
	if page == 0 {
		page = 1
	}
	if page < 1 {
		verr.Add("page", "must be at least 1")
	}

	perPage := req.PerPage
	if perPage == 0 {
		perPage = DefaultPerPage
	}
	if perPage < 1 || perPage > MaxPerPage {
		verr.Add("per_page", fmt.Sprintf("must be between 1 and %d", MaxPerPage))
	}

	sort := req.Sort
	if sort == "" {
		sort = SortNameAsc
	}
	if !sort.Valid() {
		verr.Add("sort", "unsupported sort field")
	}

	search := strings.TrimSpace(req.Search)
	if len(search) > 200 {
		verr.Add("search", "must be at most 200 characters")
	}

	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	return &RecipeFilter{
		Search:             search,
		IngredientsAny:     Dedup(req.IngredientsAny),
		IngredientsAll:     Dedup(req.IngredientsAll),
		IngredientsExclude: Dedup(req.IngredientsExclude),
		Sort:               sort,
		Limit:              perPage,
		Offset:             (page - 1) * perPage,
	}, nil
}
