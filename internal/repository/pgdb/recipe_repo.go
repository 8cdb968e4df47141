package pgdb

import (
	"context"
	"fmt"
	"strings"

	"github.com/DRSN-tech/recipe-cart/internal/domain"
	"github.com/DRSN-tech/recipe-cart/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/recipe-cart/internal/usecase"
	"github.com/DRSN-tech/recipe-cart/pkg/e"
	"github.com/DRSN-tech/recipe-cart/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

const recipeSelect = `
	SELECT r.id, r.name, r.description, r.image_key,
		(SELECT COUNT(*) FROM ingredients i WHERE i.recipe_id = r.id) AS ingredients_count,
		r.created_at, r.updated_at
	FROM recipes r
`

// recipeOrderBy сопоставляет сортировку с выражением ORDER BY.
var recipeOrderBy = map[usecase.RecipeSort]string{
	usecase.SortNameAsc:              "r.name ASC",
	usecase.SortNameDesc:             "r.name DESC",
	usecase.SortCreatedAtAsc:         "r.created_at ASC",
	usecase.SortCreatedAtDesc:        "r.created_at DESC",
	usecase.SortUpdatedAtAsc:         "r.updated_at ASC NULLS FIRST",
	usecase.SortUpdatedAtDesc:        "r.updated_at DESC NULLS LAST",
	usecase.SortIngredientsCountAsc:  "ingredients_count ASC",
	usecase.SortIngredientsCountDesc: "ingredients_count DESC",
}

// likeEscaper экранирует спецсимволы LIKE, поиск идёт по подстроке буквально.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// RecipeRepo реализует репозиторий рецептов поверх PostgreSQL.
type RecipeRepo struct {
	pool *pgxpool.Pool
	conv converter.RecipeConverter
}

func NewRecipeRepo(pool *pgxpool.Pool, conv converter.RecipeConverter) *RecipeRepo {
	return &RecipeRepo{pool: pool, conv: conv}
}

func (r *RecipeRepo) Create(ctx context.Context, recipe *domain.Recipe) (*domain.Recipe, error) {
	query := `
		INSERT INTO recipes (name, description)
		VALUES ($1, $2)
		RETURNING id, name, description, image_key, created_at, updated_at
	`

	model := r.conv.ToModel(recipe)
	if err := tr.Executor(ctx, r.pool).QueryRow(ctx, query, model.Name, model.Description).
		Scan(&model.ID, &model.Name, &model.Description, &model.ImageKey, &model.CreatedAt, &model.UpdatedAt); err != nil {
		if postgresDuplicate(err, "recipes_name_key") {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrNameTaken)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return r.conv.ToEntity(model), nil
}

func (r *RecipeRepo) Update(ctx context.Context, recipe *domain.Recipe) (*domain.Recipe, error) {
	query := `
		UPDATE recipes
		SET name = $2, description = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING id, name, description, image_key, created_at, updated_at
	`

	model := r.conv.ToModel(recipe)
	if err := tr.Executor(ctx, r.pool).QueryRow(ctx, query, model.ID, model.Name, model.Description).
		Scan(&model.ID, &model.Name, &model.Description, &model.ImageKey, &model.CreatedAt, &model.UpdatedAt); err != nil {
		switch {
		case noRows(err):
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrRecipeNotFound)
		case postgresDuplicate(err, "recipes_name_key"):
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrNameTaken)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return r.conv.ToEntity(model), nil
}

// Delete удаляет рецепт, ингредиенты удаляются каскадно.
func (r *RecipeRepo) Delete(ctx context.Context, id int64) error {
	tag, err := tr.Executor(ctx, r.pool).Exec(ctx, `DELETE FROM recipes WHERE id = $1`, id)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if tag.RowsAffected() == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrRecipeNotFound)
	}

	return nil
}

func (r *RecipeRepo) GetByID(ctx context.Context, id int64) (*domain.Recipe, error) {
	rows, err := tr.Executor(ctx, r.pool).Query(ctx, recipeSelect+` WHERE r.id = $1`, id)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	recipes, err := r.collect(rows, nil)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if len(recipes) == 0 {
		return nil, e.Wrap(whereami.WhereAmI(), e.ErrRecipeNotFound)
	}

	return &recipes[0], nil
}

// List возвращает страницу рецептов и общее число подходящих под фильтр записей.
func (r *RecipeRepo) List(ctx context.Context, filter *usecase.RecipeFilter) ([]domain.Recipe, int, error) {
	where, args := recipeFilterClauses(filter)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	orderBy, ok := recipeOrderBy[filter.Sort]
	if !ok {
		orderBy = recipeOrderBy[usecase.SortNameAsc]
	}

	var sb strings.Builder
	sb.WriteString(`
		SELECT r.id, r.name, r.description, r.image_key,
			(SELECT COUNT(*) FROM ingredients i WHERE i.recipe_id = r.id) AS ingredients_count,
			r.created_at, r.updated_at,
			COUNT(*) OVER () AS total
		FROM recipes r
	`)
	if len(where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(where, " AND "))
	}
	fmt.Fprintf(&sb, " ORDER BY %s, r.id ASC LIMIT %s OFFSET %s", orderBy, arg(filter.Limit), arg(filter.Offset))

	rows, err := tr.Executor(ctx, r.pool).Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, 0, e.Wrap(whereami.WhereAmI(), err)
	}

	var total int
	recipes, err := r.collect(rows, &total)
	if err != nil {
		return nil, 0, e.Wrap(whereami.WhereAmI(), err)
	}

	// Страница за пределами выборки не содержит строк, поэтому total считается отдельно
	if len(recipes) == 0 && filter.Offset > 0 {
		countQuery := `SELECT COUNT(*) FROM recipes r`
		if len(where) > 0 {
			countQuery += " WHERE " + strings.Join(where, " AND ")
		}
		if err := tr.Executor(ctx, r.pool).QueryRow(ctx, countQuery, args[:len(args)-2]...).Scan(&total); err != nil {
			return nil, 0, e.Wrap(whereami.WhereAmI(), err)
		}
	}

	return recipes, total, nil
}

// recipeFilterClauses переводит фильтр в условия WHERE с позиционными параметрами $1..$n.
func recipeFilterClauses(filter *usecase.RecipeFilter) ([]string, []any) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Search != "" {
		p := arg("%" + likeEscaper.Replace(filter.Search) + "%")
		where = append(where, fmt.Sprintf(`(
			r.name ILIKE %[1]s OR r.description ILIKE %[1]s OR EXISTS (
				SELECT 1 FROM ingredients i JOIN products p ON p.id = i.product_id
				WHERE i.recipe_id = r.id AND p.name ILIKE %[1]s
			)
		)`, p))
	}

	if len(filter.IngredientsAny) > 0 {
		where = append(where, fmt.Sprintf(
			`EXISTS (SELECT 1 FROM ingredients i WHERE i.recipe_id = r.id AND i.product_id = ANY(%s))`,
			arg(filter.IngredientsAny)))
	}

	if len(filter.IngredientsAll) > 0 {
		p := arg(filter.IngredientsAll)
		where = append(where, fmt.Sprintf(
			`(SELECT COUNT(DISTINCT i.product_id) FROM ingredients i WHERE i.recipe_id = r.id AND i.product_id = ANY(%[1]s)) = cardinality(%[1]s::bigint[])`,
			p))
	}

	if len(filter.IngredientsExclude) > 0 {
		where = append(where, fmt.Sprintf(
			`NOT EXISTS (SELECT 1 FROM ingredients i WHERE i.recipe_id = r.id AND i.product_id = ANY(%s))`,
			arg(filter.IngredientsExclude)))
	}

	return where, args
}

// ExistingIDs возвращает те ids, для которых рецепт существует.
func (r *RecipeRepo) ExistingIDs(ctx context.Context, ids []int64) ([]int64, error) {
	rows, err := tr.Executor(ctx, r.pool).Query(ctx, `SELECT id FROM recipes WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	existing, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return existing, nil
}

func (r *RecipeRepo) SetImageKey(ctx context.Context, id int64, key *string) error {
	tag, err := tr.Executor(ctx, r.pool).Exec(ctx,
		`UPDATE recipes SET image_key = $2, updated_at = NOW() WHERE id = $1`, id, key)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if tag.RowsAffected() == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrRecipeNotFound)
	}

	return nil
}

// collect читает строки recipeSelect; если total != nil, ожидается дополнительная колонка total.
func (r *RecipeRepo) collect(rows pgx.Rows, total *int) ([]domain.Recipe, error) {
	defer rows.Close()

	result := make([]domain.Recipe, 0)
	for rows.Next() {
		var model converter.RecipeModel
		dest := []any{
			&model.ID, &model.Name, &model.Description, &model.ImageKey,
			&model.IngredientsCount, &model.CreatedAt, &model.UpdatedAt,
		}
		if total != nil {
			dest = append(dest, total)
		}

		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}

		result = append(result, *r.conv.ToEntity(&model))
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
