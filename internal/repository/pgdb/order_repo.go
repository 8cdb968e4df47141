package pgdb

import (
	"context"

	"github.com/DRSN-tech/recipe-cart/internal/domain"
	"github.com/DRSN-tech/recipe-cart/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/recipe-cart/pkg/e"
	"github.com/DRSN-tech/recipe-cart/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

const orderColumns = `id, user_id, status, total_amount, created_at, updated_at`

// OrderRepo хранит заказы и их позиции.
type OrderRepo struct {
	pool *pgxpool.Pool
	conv converter.OrderConverter
}

func NewOrderRepo(pool *pgxpool.Pool, conv converter.OrderConverter) *OrderRepo {
	return &OrderRepo{pool: pool, conv: conv}
}

// Create вставляет заказ и все его позиции. Вызывается внутри транзакции,
// позиции отправляются одним пакетом.
func (o *OrderRepo) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	db := tr.Executor(ctx, o.pool)
	model, items := o.conv.ToModel(order)

	query := `
		INSERT INTO orders (user_id, status, total_amount)
		VALUES ($1, $2, $3)
		RETURNING ` + orderColumns

	if err := db.QueryRow(ctx, query, model.UserID, model.Status, model.TotalAmount).
		Scan(&model.ID, &model.UserID, &model.Status, &model.TotalAmount, &model.CreatedAt, &model.UpdatedAt); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	batch := &pgx.Batch{}
	for idx := range items {
		items[idx].OrderID = model.ID
		batch.Queue(`
			INSERT INTO order_items (order_id, product_id, product_name, quantity, price)
			VALUES ($1, $2, $3, $4, $5)
		`, model.ID, items[idx].ProductID, items[idx].ProductName, items[idx].Quantity, items[idx].Price)
	}

	br := db.SendBatch(ctx, batch)
	for range items {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			if postgresForeignKey(err) {
				return nil, e.Wrap(whereami.WhereAmI(), e.ErrUnknownProduct)
			}
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
	}
	if err := br.Close(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return o.conv.ToEntity(model, items), nil
}

func (o *OrderRepo) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	db := tr.Executor(ctx, o.pool)

	var model converter.OrderModel
	if err := db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id).
		Scan(&model.ID, &model.UserID, &model.Status, &model.TotalAmount, &model.CreatedAt, &model.UpdatedAt); err != nil {
		if noRows(err) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrOrderNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	items, err := o.itemsByOrders(ctx, []int64{model.ID})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return o.conv.ToEntity(&model, items[model.ID]), nil
}

// List возвращает заказы от новых к старым вместе с позициями.
func (o *OrderRepo) List(ctx context.Context, userID *int64) ([]domain.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE $1::bigint IS NULL OR user_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := tr.Executor(ctx, o.pool).Query(ctx, query, userID)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	var (
		models []converter.OrderModel
		ids    []int64
	)
	for rows.Next() {
		var model converter.OrderModel
		if err := rows.Scan(&model.ID, &model.UserID, &model.Status, &model.TotalAmount, &model.CreatedAt, &model.UpdatedAt); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		models = append(models, model)
		ids = append(ids, model.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	rows.Close()

	result := make([]domain.Order, 0, len(models))
	if len(models) == 0 {
		return result, nil
	}

	items, err := o.itemsByOrders(ctx, ids)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	for idx := range models {
		result = append(result, *o.conv.ToEntity(&models[idx], items[models[idx].ID]))
	}

	return result, nil
}

// UpdateStatus меняет только статус; позиции и сумма заказа не трогаются.
func (o *OrderRepo) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) (*domain.Order, error) {
	query := `
		UPDATE orders
		SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + orderColumns

	var model converter.OrderModel
	if err := tr.Executor(ctx, o.pool).QueryRow(ctx, query, id, string(status)).
		Scan(&model.ID, &model.UserID, &model.Status, &model.TotalAmount, &model.CreatedAt, &model.UpdatedAt); err != nil {
		if noRows(err) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrOrderNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	items, err := o.itemsByOrders(ctx, []int64{model.ID})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return o.conv.ToEntity(&model, items[model.ID]), nil
}

func (o *OrderRepo) itemsByOrders(ctx context.Context, orderIDs []int64) (map[int64][]converter.OrderItemModel, error) {
	query := `
		SELECT order_id, product_id, product_name, quantity, price
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY order_id, product_id
	`

	rows, err := tr.Executor(ctx, o.pool).Query(ctx, query, orderIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[int64][]converter.OrderItemModel, len(orderIDs))
	for rows.Next() {
		var item converter.OrderItemModel
		if err := rows.Scan(&item.OrderID, &item.ProductID, &item.ProductName, &item.Quantity, &item.Price); err != nil {
			return nil, err
		}
		result[item.OrderID] = append(result[item.OrderID], item)
	}

	return result, rows.Err()
}
