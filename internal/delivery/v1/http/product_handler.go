package http

import (
	"net/http"

	"github.com/DRSN-tech/recipe-cart/internal/usecase"
	"github.com/DRSN-tech/recipe-cart/pkg/logger"
)

type ProductHandler struct {
	productUsecase usecase.ProductUC
	logger         logger.Logger
}

func NewProductHandler(productUsecase usecase.ProductUC, logger logger.Logger) *ProductHandler {
	return &ProductHandler{productUsecase: productUsecase, logger: logger}
}

type ProductsInfoResponse struct {
	Products []ProductResponse `json:"products"`
	NotFound []int64           `json:"not_found"`
}

// listProducts
//
//	@Summary		Список продуктов
//	@Description	Продукты по алфавиту. С параметром ids возвращает только указанные продукты и список ненайденных.
//	@Tags			products
//	@Produce		json
//	@Param			search	query		string	false	"Подстрока названия"
//	@Param			ids		query		string	false	"ID продуктов через запятую"
//	@Success		200		{object}	DataResponse{data=[]ProductResponse}
//	@Failure		404		{object}	ErrorResponse	"No products found"
//	@Router			/products [get]
func (p *ProductHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	ids, err := parseIDList(r, "ids")
	if err != nil {
		WriteError(w, err)
		return
	}

	if len(ids) > 0 {
		res, err := p.productUsecase.GetProductsInfo(r.Context(), usecase.NewGetProductsReq(ids))
		if err != nil {
			WriteError(w, err)
			return
		}

		WriteSuccess(w, http.StatusOK, DataResponse{Data: ProductsInfoResponse{
			Products: toProductResponses(res.Products),
			NotFound: res.NotFoundProducts,
		}})
		return
	}

	products, err := p.productUsecase.ListProducts(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, DataResponse{Data: toProductResponses(products)})
}

// getProduct
//
//	@Summary	Продукт по ID
//	@Tags		products
//	@Produce	json
//	@Param		id	path		int	true	"ID продукта"
//	@Success	200	{object}	DataResponse{data=ProductResponse}
//	@Failure	404	{object}	ErrorResponse
//	@Router		/products/{id} [get]
func (p *ProductHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	product, err := p.productUsecase.GetProduct(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, DataResponse{Data: toProductResponse(product)})
}

// createProduct
//
//	@Summary	Создание продукта
//	@Tags		products
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		CreateProductRequest	true	"Продукт"
//	@Success	201		{object}	DataResponse{data=ProductResponse}
//	@Failure	400		{object}	ErrorResponse	"Ошибка валидации"
//	@Failure	403		{object}	ErrorResponse	"Только для администратора"
//	@Router		/products [post]
func (p *ProductHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	caller, _ := callerFrom(r.Context())

	var req CreateProductRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	product, err := p.productUsecase.CreateProduct(r.Context(), caller, &usecase.CreateProductReq{
		Name:        req.Name,
		Description: req.Description,
		Price:       *req.Price,
	})
	if err != nil {
		p.logger.Warnf("create product failed: %v", err)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, DataResponse{Message: "Product created successfully", Data: toProductResponse(product)})
}

// updateProduct
//
//	@Summary	Изменение продукта
//	@Tags		products
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		id		path		int						true	"ID продукта"
//	@Param		body	body		UpdateProductRequest	true	"Изменяемые поля"
//	@Success	200		{object}	DataResponse{data=ProductResponse}
//	@Failure	400		{object}	ErrorResponse
//	@Failure	403		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Router		/products/{id} [put]
func (p *ProductHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	caller, _ := callerFrom(r.Context())

	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	var req UpdateProductRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	product, err := p.productUsecase.UpdateProduct(r.Context(), caller, &usecase.UpdateProductReq{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, DataResponse{Message: "Product updated successfully", Data: toProductResponse(product)})
}

// deleteProduct
//
//	@Summary	Удаление продукта
//	@Tags		products
//	@Security	BearerAuth
//	@Param		id	path		int	true	"ID продукта"
//	@Success	200	{object}	DataResponse
//	@Failure	403	{object}	ErrorResponse
//	@Failure	404	{object}	ErrorResponse
//	@Failure	409	{object}	ErrorResponse	"Продукт есть в заказах"
//	@Router		/products/{id} [delete]
func (p *ProductHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	caller, _ := callerFrom(r.Context())

	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := p.productUsecase.DeleteProduct(r.Context(), caller, id); err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, DataResponse{Message: "Product deleted successfully"})
}
