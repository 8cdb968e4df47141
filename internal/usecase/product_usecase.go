package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/DRSN-tech/recipe-cart/internal/domain"
	"github.com/DRSN-tech/recipe-cart/pkg/e"
	"github.com/DRSN-tech/recipe-cart/pkg/logger"
	"github.com/shopspring/decimal"
)

const maxNameLength = 255

// ProductUseCase реализует бизнес-логику каталога продуктов.
type ProductUseCase struct {
	productRepo ProductRepository
	cacheRepo   CacheRepository
	logger      logger.Logger
}

func NewProductUC(productRepo ProductRepository, cacheRepo CacheRepository, logger logger.Logger) *ProductUseCase {
	return &ProductUseCase{
		productRepo: productRepo,
		cacheRepo:   cacheRepo,
		logger:      logger,
	}
}

// CreateProduct добавляет продукт в каталог, доступно только администратору.
func (p *ProductUseCase) CreateProduct(ctx context.Context, caller domain.Caller, req *CreateProductReq) (*domain.Product, error) {
	const op = "ProductUseCase.CreateProduct"

	if !caller.IsAdmin() {
		return nil, e.Wrap(op, e.ErrAdminOnly)
	}

	name := strings.TrimSpace(req.Name)
	if err := validateProduct(name, req.Price); err != nil {
		return nil, e.Wrap(op, err)
	}

	product, err := p.productRepo.Create(ctx, domain.NewProduct(name, req.Description, req.Price))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	p.logger.Infof("product created: product_id=%d name=%s", product.ID, product.Name)

	return product, nil
}

// UpdateProduct частично обновляет продукт и сбрасывает его из кэша.
// Снимки цен в уже созданных заказах не затрагиваются.
func (p *ProductUseCase) UpdateProduct(ctx context.Context, caller domain.Caller, req *UpdateProductReq) (*domain.Product, error) {
	const op = "ProductUseCase.UpdateProduct"

	if !caller.IsAdmin() {
		return nil, e.Wrap(op, e.ErrAdminOnly)
	}

	product, err := p.productRepo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if req.Name != nil {
		product.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		product.Description = req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}

	if err := validateProduct(product.Name, product.Price); err != nil {
		return nil, e.Wrap(op, err)
	}

	updated, err := p.productRepo.Update(ctx, product)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	p.invalidate(ctx, op, updated.ID)

	return updated, nil
}

// DeleteProduct удаляет продукт. Продукт, на который ссылаются заказы, удалить нельзя.
func (p *ProductUseCase) DeleteProduct(ctx context.Context, caller domain.Caller, id int64) error {
	const op = "ProductUseCase.DeleteProduct"

	if !caller.IsAdmin() {
		return e.Wrap(op, e.ErrAdminOnly)
	}

	if err := p.productRepo.Delete(ctx, id); err != nil {
		return e.Wrap(op, err)
	}

	p.invalidate(ctx, op, id)

	return nil
}

// GetProduct возвращает продукт по ID, сначала проверяя кэш.
func (p *ProductUseCase) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	const op = "ProductUseCase.GetProduct"

	res, err := p.GetProductsInfo(ctx, NewGetProductsReq([]int64{id}))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if len(res.Products) == 0 {
		return nil, e.Wrap(op, e.ErrProductNotFound)
	}

	return &res.Products[0], nil
}

// GetProductsInfo возвращает информацию о продуктах по их идентификаторам.
func (p *ProductUseCase) GetProductsInfo(ctx context.Context, req *GetProductsReq) (*GetProductsRes, error) {
	const op = "ProductUseCase.GetProductsInfo"

	// Валидация
	if len(req.IDs) == 0 {
		return nil, e.Wrap(op, e.ErrNoProducts)
	}

	// Поиск продуктов в кэше
	cacheProductsMap, err := p.cacheRepo.GetProducts(ctx, req.IDs)
	var nonCacheable []int64
	if err != nil {
		nonCacheable = append(nonCacheable, req.IDs...)
	} else {
		for _, productID := range req.IDs {
			if _, ok := cacheProductsMap[productID]; !ok {
				nonCacheable = append(nonCacheable, productID)
			}
		}
	}

	// Получение продуктов из БД
	var dbProductsMap map[int64]domain.Product
	if len(nonCacheable) > 0 {
		dbProductsMap, err = p.productRepo.GetByIDs(ctx, Dedup(nonCacheable))
		if err != nil {
			return nil, e.Wrap(op, err)
		}

		fromDB := make([]domain.Product, 0, len(dbProductsMap))
		for _, product := range dbProductsMap {
			fromDB = append(fromDB, product)
		}

		// Фоновое добавление продуктов в кэш
		if len(fromDB) > 0 {
			go func() {
				bgCtx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
				defer cancel()

				if err := p.cacheRepo.SetProducts(bgCtx, fromDB); err != nil {
					p.logger.Warnf("Failed to cache products in background: %v", e.Wrap(op, err))
				}
			}()
		}
	}

	// Формирование результата в порядке запроса
	result := make([]domain.Product, 0, len(req.IDs))
	notFoundProducts := make([]int64, 0)
	for _, id := range req.IDs {
		if pr, ok := cacheProductsMap[id]; ok {
			result = append(result, pr)
		} else if pr, ok := dbProductsMap[id]; ok {
			result = append(result, pr)
		} else {
			notFoundProducts = append(notFoundProducts, id)
		}
	}

	return NewGetProductsRes(result, notFoundProducts), nil
}

// ListProducts возвращает продукты по алфавиту, опционально фильтруя по подстроке имени.
func (p *ProductUseCase) ListProducts(ctx context.Context, search string) ([]domain.Product, error) {
	const op = "ProductUseCase.ListProducts"

	products, err := p.productRepo.List(ctx, strings.TrimSpace(search))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if len(products) == 0 {
		return nil, e.Wrap(op, e.ErrNoProducts)
	}

	return products, nil
}

// invalidate удаляет продукт из кэша; ошибка кэша не прерывает операцию.
func (p *ProductUseCase) invalidate(ctx context.Context, op string, id int64) {
	if err := p.cacheRepo.DeleteProducts(ctx, []int64{id}); err != nil {
		p.logger.Warnf("Failed to delete products: %v", e.Wrap(op, err))
	}
}

// validateProduct проверяет имя и цену продукта.
func validateProduct(name string, price decimal.Decimal) error {
	if name == "" || len(name) > maxNameLength {
		return e.ErrProductNameRequired
	}

	if price.IsNegative() || price.GreaterThan(maxPrice) {
		return e.ErrInvalidPrice
	}

	if price.Exponent() < -moneyPlaces && !price.Equal(price.Round(moneyPlaces)) {
		return e.ErrPricePrecision
	}

	return nil
}
