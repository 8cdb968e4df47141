package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/DRSN-tech/recipe-cart/internal/domain"
	"github.com/DRSN-tech/recipe-cart/pkg/e"
	"github.com/DRSN-tech/recipe-cart/pkg/logger"
	"github.com/google/uuid"
)

// OrderUseCase реализует сборку заказов из корзины и управление их статусом.
type OrderUseCase struct {
	productRepo    ProductRepository
	recipeRepo     RecipeRepository
	ingredientRepo IngredientRepository
	orderRepo      OrderRepository
	userRepo       UserRepository
	outboxRepo     OutboxRepository
	encoder        EventEncoder
	trManager      TxManager
	logger         logger.Logger
}

func NewOrderUC(
	productRepo ProductRepository,
	recipeRepo RecipeRepository,
	ingredientRepo IngredientRepository,
	orderRepo OrderRepository,
	userRepo UserRepository,
	outboxRepo OutboxRepository,
	encoder EventEncoder,
	trManager TxManager,
	logger logger.Logger,
) *OrderUseCase {
	return &OrderUseCase{
		productRepo:    productRepo,
		recipeRepo:     recipeRepo,
		ingredientRepo: ingredientRepo,
		orderRepo:      orderRepo,
		userRepo:       userRepo,
		outboxRepo:     outboxRepo,
		encoder:        encoder,
		trManager:      trManager,
		logger:         logger,
	}
}

// CreateOrder создаёт заказ из явного списка позиций.
func (o *OrderUseCase) CreateOrder(ctx context.Context, caller domain.Caller, req *CreateOrderReq) (*domain.Order, error) {
	const op = "OrderUseCase.CreateOrder"

	if !caller.IsUser() {
		return nil, e.Wrap(op, e.ErrOnlyUsersCanOrder)
	}

	agg, err := NewDirectAggregate(req.Items)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	var order *domain.Order
	err = o.trManager.Do(ctx, func(ctx context.Context) error {
		products, err := o.productRepo.GetByIDs(ctx, agg.ProductIDs())
		if err != nil {
			return err
		}

		order, err = o.persistOrder(ctx, caller.UserID, agg, products)
		return err
	})
	if err != nil {
		o.logFailure(op, err)
		return nil, e.Wrap(op, err)
	}

	o.logger.Infof("order created: order_id=%d user_id=%d items=%d total=%s",
		order.ID, order.UserID, len(order.Items), order.TotalAmount.StringFixed(moneyPlaces))

	return order, nil
}

// CreateOrderFromRecipes собирает заказ из ингредиентов рецептов с учётом include/exclude.
func (o *OrderUseCase) CreateOrderFromRecipes(ctx context.Context, caller domain.Caller, req *CreateOrderFromRecipesReq) (*domain.Order, error) {
	const op = "OrderUseCase.CreateOrderFromRecipes"

	if !caller.IsUser() {
		return nil, e.Wrap(op, e.ErrOnlyUsersCanOrder)
	}

	if err := ValidateRecipeIDs(req.RecipeIDs); err != nil {
		return nil, e.Wrap(op, err)
	}

	include := Dedup(req.IncludeProductIDs)
	exclude := Dedup(req.ExcludeProductIDs)

	var order *domain.Order
	err := o.trManager.Do(ctx, func(ctx context.Context) error {
		if err := o.ensureRecipesExist(ctx, req.RecipeIDs); err != nil {
			return err
		}

		recipeIngredients, err := o.ingredientRepo.ListByRecipes(ctx, req.RecipeIDs)
		if err != nil {
			return err
		}

		// Все продукты, на которые ссылается запрос, загружаются одним запросом
		ids := make([]int64, 0, len(include)+len(exclude))
		ids = append(ids, include...)
		ids = append(ids, exclude...)
		for _, ingredients := range recipeIngredients {
			for _, ing := range ingredients {
				ids = append(ids, ing.ProductID)
			}
		}

		products, err := o.productRepo.GetByIDs(ctx, Dedup(ids))
		if err != nil {
			return err
		}

		if err := ensureProductsExist(products, include, exclude); err != nil {
			return err
		}

		agg, err := NewRecipesAggregate(recipeIngredients, include, exclude)
		if err != nil {
			return err
		}

		order, err = o.persistOrder(ctx, caller.UserID, agg, products)
		return err
	})
	if err != nil {
		o.logFailure(op, err)
		return nil, e.Wrap(op, err)
	}

	o.logger.Infof("order created from recipes: order_id=%d user_id=%d recipes=%v items=%d total=%s",
		order.ID, order.UserID, req.RecipeIDs, len(order.Items), order.TotalAmount.StringFixed(moneyPlaces))

	return order, nil
}

// GetOrder возвращает заказ: администратору любой, пользователю только свой.
func (o *OrderUseCase) GetOrder(ctx context.Context, caller domain.Caller, id int64) (*domain.Order, error) {
	const op = "OrderUseCase.GetOrder"

	order, err := o.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if !caller.IsAdmin() && order.UserID != caller.UserID {
		return nil, e.Wrap(op, e.ErrNotOrderOwner)
	}

	return order, nil
}

// ListOrders возвращает заказы в области видимости вызывающего.
func (o *OrderUseCase) ListOrders(ctx context.Context, caller domain.Caller) ([]domain.Order, error) {
	const op = "OrderUseCase.ListOrders"

	var userID *int64
	if !caller.IsAdmin() {
		userID = &caller.UserID
	}

	orders, err := o.orderRepo.List(ctx, userID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if len(orders) == 0 {
		return nil, e.Wrap(op, e.ErrNoOrders)
	}

	return orders, nil
}

// ListUserOrders возвращает заказы указанного пользователя, доступно только администратору.
func (o *OrderUseCase) ListUserOrders(ctx context.Context, caller domain.Caller, userID int64) (*UserOrdersRes, error) {
	const op = "OrderUseCase.ListUserOrders"

	if !caller.IsAdmin() {
		return nil, e.Wrap(op, e.ErrAdminOnly)
	}

	user, err := o.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	orders, err := o.orderRepo.List(ctx, &user.ID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if len(orders) == 0 {
		return nil, e.Wrap(op, e.ErrNoOrders)
	}

	return &UserOrdersRes{User: user, Orders: orders}, nil
}

// UpdateOrderStatus меняет только статус заказа; позиции и сумма остаются прежними.
func (o *OrderUseCase) UpdateOrderStatus(ctx context.Context, caller domain.Caller, req *UpdateOrderStatusReq) (*domain.Order, error) {
	const op = "OrderUseCase.UpdateOrderStatus"

	if !caller.IsAdmin() {
		return nil, e.Wrap(op, e.ErrAdminOnly)
	}

	if !req.Status.Valid() {
		return nil, e.Wrap(op, fmt.Errorf("%w: %q", e.ErrInvalidStatus, req.Status))
	}

	var order *domain.Order
	err := o.trManager.Do(ctx, func(ctx context.Context) error {
		var err error
		order, err = o.orderRepo.UpdateStatus(ctx, req.OrderID, req.Status)
		if err != nil {
			return err
		}

		return o.writeEvent(ctx, OrderStatusUpdated, order)
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	o.logger.Infof("order status updated: order_id=%d status=%s", order.ID, order.Status)

	return order, nil
}

// persistOrder оценивает агрегат по текущим ценам, сохраняет заказ и пишет событие в outbox.
// Должен вызываться внутри транзакции.
func (o *OrderUseCase) persistOrder(ctx context.Context, userID int64, agg Aggregate, products map[int64]domain.Product) (*domain.Order, error) {
	items, total, err := agg.Price(products)
	if err != nil {
		return nil, err
	}

	order, err := o.orderRepo.Create(ctx, domain.NewOrder(userID, items, total))
	if err != nil {
		return nil, err
	}

	if err := o.writeEvent(ctx, OrderCreated, order); err != nil {
		return nil, err
	}

	return order, nil
}

func (o *OrderUseCase) writeEvent(ctx context.Context, eventType OutboxEventType, order *domain.Order) error {
	eventID := uuid.NewString()

	payload, err := o.encoder.EncodeOrderEvent(eventID, eventType, order)
	if err != nil {
		return err
	}

	_, err = o.outboxRepo.Create(ctx, NewOutboxEvent(eventID, eventType, order.ID, payload))
	return err
}

func (o *OrderUseCase) ensureRecipesExist(ctx context.Context, ids []int64) error {
	existing, err := o.recipeRepo.ExistingIDs(ctx, ids)
	if err != nil {
		return err
	}

	if len(existing) == len(ids) {
		return nil
	}

	var missing []int64
	for _, id := range ids {
		if !slices.Contains(existing, id) {
			missing = append(missing, id)
		}
	}

	return fmt.Errorf("%w: %v", e.ErrUnknownRecipe, missing)
}

func ensureProductsExist(products map[int64]domain.Product, groups ...[]int64) error {
	var missing []int64
	for _, ids := range groups {
		for _, id := range ids {
			if _, ok := products[id]; !ok && !slices.Contains(missing, id) {
				missing = append(missing, id)
			}
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %v", e.ErrUnknownProduct, missing)
	}

	return nil
}

// logFailure пишет в лог только ошибки инфраструктуры, ошибки клиента возвращаются молча.
func (o *OrderUseCase) logFailure(op string, err error) {
	if !isClientError(err) {
		o.logger.Errorf(err, "%s failed", op)
	}
}

// isClientError сообщает, вызвана ли ошибка входными данными, а не инфраструктурой.
func isClientError(err error) bool {
	return errors.Is(err, e.ErrValidation) ||
		errors.Is(err, e.ErrUnprocessable) ||
		errors.Is(err, e.ErrNotFound) ||
		errors.Is(err, e.ErrForbidden) ||
		errors.Is(err, e.ErrConflict)
}
