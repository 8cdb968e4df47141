package pgdb

import (
	"context"

	"github.com/DRSN-tech/recipe-cart/internal/domain"
	"github.com/DRSN-tech/recipe-cart/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/recipe-cart/pkg/e"
	"github.com/DRSN-tech/recipe-cart/pkg/tr"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

const productColumns = `id, name, description, price, created_at, updated_at`

// ProductRepo реализует репозиторий продуктов поверх PostgreSQL.
type ProductRepo struct {
	pool *pgxpool.Pool
	conv converter.ProductConverter
}

func NewProductRepo(pool *pgxpool.Pool, conv converter.ProductConverter) *ProductRepo {
	return &ProductRepo{
		pool: pool,
		conv: conv,
	}
}

// Create вставляет продукт; занятое имя возвращает ErrNameTaken.
func (p *ProductRepo) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	query := `
		INSERT INTO products (name, description, price)
		VALUES ($1, $2, $3)
		RETURNING ` + productColumns

	model := p.conv.ToModel(product)
	if err := tr.Executor(ctx, p.pool).QueryRow(ctx, query, model.Name, model.Description, model.Price).
		Scan(
			&model.ID, &model.Name, &model.Description, &model.Price, &model.CreatedAt, &model.UpdatedAt,
		); err != nil {
		if postgresDuplicate(err, "products_name_key") {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrNameTaken)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToEntity(model), nil
}

func (p *ProductRepo) Update(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	query := `
		UPDATE products
		SET name = $2, description = $3, price = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + productColumns

	model := p.conv.ToModel(product)
	if err := tr.Executor(ctx, p.pool).QueryRow(ctx, query, model.ID, model.Name, model.Description, model.Price).
		Scan(
			&model.ID, &model.Name, &model.Description, &model.Price, &model.CreatedAt, &model.UpdatedAt,
		); err != nil {
		switch {
		case noRows(err):
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
		case postgresDuplicate(err, "products_name_key"):
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrNameTaken)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToEntity(model), nil
}

// Delete удаляет продукт. Позиции заказов ссылаются на продукт с ON DELETE RESTRICT.
func (p *ProductRepo) Delete(ctx context.Context, id int64) error {
	tag, err := tr.Executor(ctx, p.pool).Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		if postgresForeignKey(err) {
			return e.Wrap(whereami.WhereAmI(), e.ErrProductInUse)
		}
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if tag.RowsAffected() == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
	}

	return nil
}

func (p *ProductRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	var model converter.ProductModel
	if err := tr.Executor(ctx, p.pool).QueryRow(ctx, query, id).
		Scan(
			&model.ID, &model.Name, &model.Description, &model.Price, &model.CreatedAt, &model.UpdatedAt,
		); err != nil {
		if noRows(err) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToEntity(&model), nil
}

// GetByIDs возвращает продукты по идентификаторам одним запросом.
// Внутри транзакции строки блокируются FOR SHARE, чтобы цена не изменилась до фиксации заказа.
func (p *ProductRepo) GetByIDs(ctx context.Context, ids []int64) (map[int64]domain.Product, error) {
	result := make(map[int64]domain.Product, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE id = ANY($1)
		FOR SHARE
	`

	rows, err := tr.Executor(ctx, p.pool).Query(ctx, query, ids)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	for rows.Next() {
		var model converter.ProductModel
		if err := rows.Scan(
			&model.ID, &model.Name, &model.Description, &model.Price, &model.CreatedAt, &model.UpdatedAt,
		); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		result[model.ID] = *p.conv.ToEntity(&model)
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return result, nil
}

// List возвращает продукты по алфавиту; search фильтрует по подстроке имени без учёта регистра.
func (p *ProductRepo) List(ctx context.Context, search string) ([]domain.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE $1 = '' OR name ILIKE '%' || $1 || '%'
		ORDER BY name
	`

	rows, err := tr.Executor(ctx, p.pool).Query(ctx, query, search)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]domain.Product, 0)
	for rows.Next() {
		var model converter.ProductModel
		if err := rows.Scan(
			&model.ID, &model.Name, &model.Description, &model.Price, &model.CreatedAt, &model.UpdatedAt,
		); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		result = append(result, *p.conv.ToEntity(&model))
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return result, nil
}
