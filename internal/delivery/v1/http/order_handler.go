package http

import (
	"net/http"

	"github.com/DRSN-tech/recipe-cart/internal/domain"
	"github.com/DRSN-tech/recipe-cart/internal/usecase"
	"github.com/DRSN-tech/recipe-cart/pkg/logger"
)

type OrderHandler struct {
	orderUsecase usecase.OrderUC
	logger       logger.Logger
}

func NewOrderHandler(orderUsecase usecase.OrderUC, logger logger.Logger) *OrderHandler {
	return &OrderHandler{orderUsecase: orderUsecase, logger: logger}
}

// createOrder
//
//	@Summary		Заказ из списка продуктов
//	@Description	Цены фиксируются на момент создания заказа. Доступно только роли user.
//	@Tags			orders
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateOrderRequest	true	"Позиции заказа"
//	@Success		201		{object}	DataResponse{data=OrderResponse}
//	@Failure		400		{object}	ErrorResponse
//	@Failure		403		{object}	ErrorResponse	"Only users can create orders"
//	@Router			/orders [post]
func (h *OrderHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	caller, _ := callerFrom(r.Context())

	var req CreateOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	order, err := h.orderUsecase.CreateOrder(r.Context(), caller, req.toUseCase())
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, DataResponse{Message: "Order created successfully", Data: toOrderResponse(order)})
}

// createOrderFromRecipes
//
//	@Summary		Заказ из рецептов
//	@Description	Продукты выбранных рецептов плюс include_product_ids минус exclude_product_ids. Исключение сильнее добавления.
//	@Tags			orders
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateOrderFromRecipesRequest	true	"Рецепты и модификаторы"
//	@Success		201		{object}	DataResponse{data=OrderResponse}
//	@Failure		400		{object}	ErrorResponse
//	@Failure		403		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse	"Корзина пуста"
//	@Router			/orders/from-recipes [post]
func (h *OrderHandler) createOrderFromRecipes(w http.ResponseWriter, r *http.Request) {
	caller, _ := callerFrom(r.Context())

	var req CreateOrderFromRecipesRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	order, err := h.orderUsecase.CreateOrderFromRecipes(r.Context(), caller,
		usecase.NewCreateOrderFromRecipesReq(req.RecipeIDs, req.IncludeProductIDs, req.ExcludeProductIDs))
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, DataResponse{Message: "Order created successfully from recipes", Data: toOrderResponse(order)})
}

// listOrders
//
//	@Summary		Список заказов
//	@Description	Администратор видит все заказы, пользователь только свои. Новые первыми.
//	@Tags			orders
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	DataResponse{data=[]OrderResponse}
//	@Failure		404	{object}	ErrorResponse	"No orders found"
//	@Router			/orders [get]
func (h *OrderHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	caller, _ := callerFrom(r.Context())

	orders, err := h.orderUsecase.ListOrders(r.Context(), caller)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, DataResponse{Data: toOrderResponses(orders)})
}

// getOrder
//
//	@Summary	Заказ по ID
//	@Tags		orders
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path		int	true	"ID заказа"
//	@Success	200	{object}	DataResponse{data=OrderResponse}
//	@Failure	403	{object}	ErrorResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/orders/{id} [get]
func (h *OrderHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	caller, _ := callerFrom(r.Context())

	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	order, err := h.orderUsecase.GetOrder(r.Context(), caller, id)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, DataResponse{Data: toOrderResponse(order)})
}

// updateOrderStatus
//
//	@Summary	Изменение статуса заказа
//	@Tags		orders
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		id		path		int							true	"ID заказа"
//	@Param		body	body		UpdateOrderStatusRequest	true	"Новый статус"
//	@Success	200		{object}	DataResponse{data=OrderResponse}
//	@Failure	400		{object}	ErrorResponse
//	@Failure	403		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Router		/orders/{id} [put]
func (h *OrderHandler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	caller, _ := callerFrom(r.Context())

	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	var req UpdateOrderStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	order, err := h.orderUsecase.UpdateOrderStatus(r.Context(), caller, usecase.NewUpdateOrderStatusReq(id, domain.OrderStatus(req.Status)))
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, DataResponse{Message: "Order updated successfully", Data: toOrderResponse(order)})
}

// listUserOrders
//
//	@Summary	Заказы пользователя
//	@Tags		orders
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path		int	true	"ID пользователя"
//	@Success	200	{object}	DataResponse{data=UserOrdersResponse}
//	@Failure	403	{object}	ErrorResponse	"Only admins can view user orders"
//	@Failure	404	{object}	ErrorResponse
//	@Router		/users/{id}/orders [get]
func (h *OrderHandler) listUserOrders(w http.ResponseWriter, r *http.Request) {
	caller, _ := callerFrom(r.Context())

	userID, err := parseIDParam(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	res, err := h.orderUsecase.ListUserOrders(r.Context(), caller, userID)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, DataResponse{Data: UserOrdersResponse{
		User:   toUserResponse(res.User),
		Orders: toOrderResponses(res.Orders),
	}})
}
