package http

import (
	"net/http"

	"github.com/DRSN-tech/recipe-cart/internal/usecase"
	"github.com/DRSN-tech/recipe-cart/pkg/e"
	"github.com/DRSN-tech/recipe-cart/pkg/logger"
)

type RecipeHandler struct {
	recipeUsecase usecase.RecipeUC
	maxImageSize  int64
	logger        logger.Logger
}

func NewRecipeHandler(recipeUsecase usecase.RecipeUC, maxImageSize int64, logger logger.Logger) *RecipeHandler {
	return &RecipeHandler{
		recipeUsecase: recipeUsecase,
		maxImageSize:  maxImageSize,
		logger:        logger,
	}
}

// listRecipes
//
//	@Summary		Поиск рецептов
//	@Description	Фильтры по ингредиентам принимают ID продуктов через запятую
//	@Tags			recipes
//	@Produce		json
//	@Param			search				query		string	false	"Название, описание или продукт ингредиента"
//	@Param			ingredients_any		query		string	false	"Хотя бы один из продуктов"
//	@Param			ingredients_all		query		string	false	"Все продукты"
//	@Param			ingredients_exclude	query		string	false	"Ни одного из продуктов"
//	@Param			sort				query		string	false	"name, -name, created_at, -created_at, updated_at, -updated_at, ingredients_count, -ingredients_count"
//	@Param			page				query		int		false	"Номер страницы"		default(1)
//	@Param			per_page			query		int		false	"Размер страницы"		default(15)
//	@Success		200					{object}	DataResponse{data=[]RecipeResponse,meta=PageMetaResponse}
//	@Failure		400					{object}	ErrorResponse
//	@Failure		404					{object}	ErrorResponse	"No recipes found"
//	@Router			/recipes [get]
func (h *RecipeHandler) listRecipes(w http.ResponseWriter, r *http.Request) {
	req, err := parseListRecipesReq(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	res, err := h.recipeUsecase.ListRecipes(r.Context(), req)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, DataResponse{
		Data: toRecipeResponses(res.Recipes),
		Meta: toPageMetaResponse(res.Meta),
	})
}

func parseListRecipesReq(r *http.Request) (*usecase.ListRecipesReq, error) {
	q := r.URL.Query()
	req := &usecase.ListRecipesReq{
		Search: q.Get("search"),
		Sort:   usecase.RecipeSort(q.Get("sort")),
	}

	var err error
	if req.IngredientsAny, err = parseIDList(r, "ingredients_any"); err != nil {
		return nil, err
	}
	if req.IngredientsAll, err = parseIDList(r, "ingredients_all"); err != nil {
		return nil, err
	}
	if req.IngredientsExclude, err = parseIDList(r, "ingredients_exclude"); err != nil {
		return nil, err
	}
	if req.Page, err = parseIntQuery(r, "page"); err != nil {
		return nil, err
	}
	if req.PerPage, err = parseIntQuery(r, "per_page"); err != nil {
		return nil, err
	}

	return req, nil
}

// getRecipe
//
//	@Summary	Рецепт по ID
//	@Tags		recipes
//	@Produce	json
//	@Param		id	path		int	true	"ID рецепта"
//	@Success	200	{object}	DataResponse{data=RecipeResponse}
//	@Failure	404	{object}	ErrorResponse
//	@Router		/recipes/{id} [get]
func (h *RecipeHandler) getRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	recipe, err := h.recipeUsecase.GetRecipe(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, DataResponse{Data: toRecipeResponse(recipe)})
}

// createRecipe
//
//	@Summary	Создание рецепта
//	@Tags		recipes
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		RecipeRequest	true	"Рецепт"
//	@Success	201		{object}	DataResponse{data=RecipeResponse}
//	@Failure	400		{object}	ErrorResponse
//	@Failure	403		{object}	ErrorResponse
//	@Router		/recipes [post]
func (h *RecipeHandler) createRecipe(w http.ResponseWriter, r *http.Request) {
	caller, _ := callerFrom(r.Context())

	var req RecipeRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	recipe, err := h.recipeUsecase.CreateRecipe(r.Context(), caller, &usecase.CreateRecipeReq{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, DataResponse{Message: "Recipe created successfully", Data: toRecipeResponse(recipe)})
}

// updateRecipe
//
//	@Summary	Изменение рецепта
//	@Tags		recipes
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		id		path		int					true	"ID рецепта"
//	@Param		body	body		UpdateRecipeRequest	true	"Изменяемые поля"
//	@Success	200		{object}	DataResponse{data=RecipeResponse}
//	@Failure	400		{object}	ErrorResponse
//	@Failure	403		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Router		/recipes/{id} [put]
func (h *RecipeHandler) updateRecipe(w http.ResponseWriter, r *http.Request) {
	caller, _ := callerFrom(r.Context())

	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	var req UpdateRecipeRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	recipe, err := h.recipeUsecase.UpdateRecipe(r.Context(), caller, &usecase.UpdateRecipeReq{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, DataResponse{Message: "Recipe updated successfully", Data: toRecipeResponse(recipe)})
}

// deleteRecipe
//
//	@Summary	Удаление рецепта
//	@Tags		recipes
//	@Security	BearerAuth
//	@Param		id	path		int	true	"ID рецепта"
//	@Success	200	{object}	DataResponse
//	@Failure	403	{object}	ErrorResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/recipes/{id} [delete]
func (h *RecipeHandler) deleteRecipe(w http.ResponseWriter, r *http.Request) {
	caller, _ := callerFrom(r.Context())

	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := h.recipeUsecase.DeleteRecipe(r.Context(), caller, id); err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, DataResponse{Message: "Recipe deleted successfully"})
}

// uploadImage
//
//	@Summary		Загрузка обложки рецепта
//	@Description	Заменяет текущую обложку. Поддерживаются jpeg, png и webp.
//	@Tags			recipes
//	@Security		BearerAuth
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			id		path		int		true	"ID рецепта"
//	@Param			image	formData	file	true	"Изображение"
//	@Success		200		{object}	DataResponse{data=RecipeResponse}
//	@Failure		400		{object}	ErrorResponse
//	@Failure		403		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Router			/recipes/{id}/image [post]
func (h *RecipeHandler) uploadImage(w http.ResponseWriter, r *http.Request) {
	const maxMemory = 8 << 20

	caller, _ := callerFrom(r.Context())

	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	// Запас на заголовки multipart сверх размера файла
	r.Body = http.MaxBytesReader(w, r.Body, h.maxImageSize+1<<20)

	if err := ensureMultipartForm(r, maxMemory); err != nil {
		h.logger.Warnf("%d %s: %v", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err)
		WriteError(w, err)
		return
	}

	image, err := parseImage(r.MultipartForm.File["image"], h.maxImageSize)
	if err != nil {
		h.logger.Warnf("%d %s: %v", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err)
		WriteError(w, err)
		return
	}

	recipe, err := h.recipeUsecase.UploadRecipeImage(r.Context(), caller, &usecase.UploadRecipeImageReq{RecipeID: id, Image: *image})
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, DataResponse{Message: "Image uploaded successfully", Data: toRecipeResponse(recipe)})
}

// getImage
//
//	@Summary	Обложка рецепта
//	@Tags		recipes
//	@Param		id	path	int	true	"ID рецепта"
//	@Success	307
//	@Failure	404	{object}	ErrorResponse
//	@Router		/recipes/{id}/image [get]
func (h *RecipeHandler) getImage(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	url, err := h.recipeUsecase.RecipeImageURL(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}
