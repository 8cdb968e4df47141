package http

import (
	"net/http"

	"github.com/DRSN-tech/recipe-cart/internal/usecase"
	"github.com/DRSN-tech/recipe-cart/pkg/logger"
)

type IngredientHandler struct {
	ingredientUsecase usecase.IngredientUC
	logger            logger.Logger
}

func NewIngredientHandler(ingredientUsecase usecase.IngredientUC, logger logger.Logger) *IngredientHandler {
	return &IngredientHandler{ingredientUsecase: ingredientUsecase, logger: logger}
}

// listForRecipe
//
//	@Summary	Ингредиенты рецепта
//	@Tags		ingredients
//	@Produce	json
//	@Param		id	path		int	true	"ID рецепта"
//	@Success	200	{object}	DataResponse{data=[]IngredientResponse}
//	@Failure	404	{object}	ErrorResponse
//	@Router		/recipes/{id}/ingredients [get]
func (h *IngredientHandler) listForRecipe(w http.ResponseWriter, r *http.Request) {
	recipeID, err := parseIDParam(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	ingredients, err := h.ingredientUsecase.ListForRecipe(r.Context(), recipeID)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, DataResponse{Data: toIngredientResponses(ingredients)})
}

// addToRecipe
//
//	@Summary	Добавление ингредиента
//	@Tags		ingredients
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		id		path		int						true	"ID рецепта"
//	@Param		body	body		AddIngredientRequest	true	"Продукт и количество"
//	@Success	201		{object}	DataResponse{data=IngredientResponse}
//	@Failure	400		{object}	ErrorResponse
//	@Failure	403		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Failure	422		{object}	ErrorResponse	"Продукт уже есть в рецепте"
//	@Router		/recipes/{id}/ingredients [post]
func (h *IngredientHandler) addToRecipe(w http.ResponseWriter, r *http.Request) {
	caller, _ := callerFrom(r.Context())

	recipeID, err := parseIDParam(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	var req AddIngredientRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	ingredient, err := h.ingredientUsecase.AddToRecipe(r.Context(), caller, &usecase.AddIngredientReq{
		RecipeID:  recipeID,
		ProductID: req.ProductID,
		Quantity:  *req.Quantity,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, DataResponse{Message: "Ingredient added successfully", Data: toIngredientResponse(ingredient)})
}

// updateIngredient
//
//	@Summary	Изменение ингредиента
//	@Tags		ingredients
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		id		path		int						true	"ID ингредиента"
//	@Param		body	body		UpdateIngredientRequest	true	"Изменяемые поля"
//	@Success	200		{object}	DataResponse{data=IngredientResponse}
//	@Failure	400		{object}	ErrorResponse
//	@Failure	403		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Failure	422		{object}	ErrorResponse
//	@Router		/ingredients/{id} [put]
func (h *IngredientHandler) updateIngredient(w http.ResponseWriter, r *http.Request) {
	caller, _ := callerFrom(r.Context())

	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	var req UpdateIngredientRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	ingredient, err := h.ingredientUsecase.UpdateIngredient(r.Context(), caller, &usecase.UpdateIngredientReq{
		ID:        id,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, DataResponse{Message: "Ingredient updated successfully", Data: toIngredientResponse(ingredient)})
}

// deleteIngredient
//
//	@Summary	Удаление ингредиента
//	@Tags		ingredients
//	@Security	BearerAuth
//	@Param		id	path		int	true	"ID ингредиента"
//	@Success	200	{object}	DataResponse
//	@Failure	403	{object}	ErrorResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/ingredients/{id} [delete]
func (h *IngredientHandler) deleteIngredient(w http.ResponseWriter, r *http.Request) {
	caller, _ := callerFrom(r.Context())

	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := h.ingredientUsecase.DeleteIngredient(r.Context(), caller, id); err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, DataResponse{Message: "Ingredient deleted successfully"})
}
