package usecase

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/DRSN-tech/recipe-cart/internal/domain"
	"github.com/DRSN-tech/recipe-cart/pkg/e"
	"github.com/shopspring/decimal"
)

// In-memory реализации репозиториев для тестов usecase-слоя.

var (
	testUser  = domain.NewCaller(1, domain.RoleUser, "tok-user", time.Now().Add(time.Hour))
	testOther = domain.NewCaller(2, domain.RoleUser, "tok-other", time.Now().Add(time.Hour))
	testAdmin = domain.NewCaller(99, domain.RoleAdmin, "tok-admin", time.Now().Add(time.Hour))
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// txParticipant — фейковый репозиторий, состояние которого откатывается вместе с fakeTx.
type txParticipant interface {
	snapshot() (restore func())
}

// fakeTx запоминает состояние участников перед fn и восстанавливает его, если fn вернула ошибку.
type fakeTx struct {
	repos     []txParticipant
	rollbacks int
}

func (t *fakeTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	restores := make([]func(), 0, len(t.repos))
	for _, r := range t.repos {
		restores = append(restores, r.snapshot())
	}

	if err := fn(ctx); err != nil {
		for _, restore := range restores {
			restore()
		}
		t.rollbacks++
		return err
	}

	return nil
}

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[int64]domain.Product
	nextID   int64
	inUse    map[int64]bool
	byIDsErr error
	calls    int
}

func newFakeProductRepo(products ...domain.Product) *fakeProductRepo {
	r := &fakeProductRepo{products: make(map[int64]domain.Product), inUse: make(map[int64]bool)}
	for _, p := range products {
		r.products[p.ID] = p
		if p.ID > r.nextID {
			r.nextID = p.ID
		}
	}
	return r
}

func (r *fakeProductRepo) Create(_ context.Context, product *domain.Product) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.Name == product.Name {
			return nil, e.ErrNameTaken
		}
	}
	r.nextID++
	product.ID = r.nextID
	r.products[product.ID] = *product
	return product, nil
}

func (r *fakeProductRepo) Update(_ context.Context, product *domain.Product) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[product.ID]; !ok {
		return nil, e.ErrProductNotFound
	}
	r.products[product.ID] = *product
	return product, nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return e.ErrProductNotFound
	}
	if r.inUse[id] {
		return e.ErrProductInUse
	}
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, e.ErrProductNotFound
	}
	return &p, nil
}

func (r *fakeProductRepo) GetByIDs(_ context.Context, ids []int64) (map[int64]domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.byIDsErr != nil {
		return nil, r.byIDsErr
	}
	res := make(map[int64]domain.Product, len(ids))
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			res[id] = p
		}
	}
	return res, nil
}

func (r *fakeProductRepo) List(_ context.Context, _ string) ([]domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res := make([]domain.Product, 0, len(r.products))
	for _, p := range r.products {
		res = append(res, p)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Name < res[j].Name })
	return res, nil
}

type fakeRecipeRepo struct {
	recipes map[int64]domain.Recipe
	nextID  int64
	list    []domain.Recipe
	total   int
	filter  *RecipeFilter
	keyErr  error
}

func newFakeRecipeRepo(recipes ...domain.Recipe) *fakeRecipeRepo {
	r := &fakeRecipeRepo{recipes: make(map[int64]domain.Recipe)}
	for _, rc := range recipes {
		r.recipes[rc.ID] = rc
		if rc.ID > r.nextID {
			r.nextID = rc.ID
		}
	}
	return r
}

func (r *fakeRecipeRepo) Create(_ context.Context, recipe *domain.Recipe) (*domain.Recipe, error) {
	r.nextID++
	recipe.ID = r.nextID
	r.recipes[recipe.ID] = *recipe
	return recipe, nil
}

func (r *fakeRecipeRepo) Update(_ context.Context, recipe *domain.Recipe) (*domain.Recipe, error) {
	r.recipes[recipe.ID] = *recipe
	return recipe, nil
}

func (r *fakeRecipeRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.recipes[id]; !ok {
		return e.ErrRecipeNotFound
	}
	delete(r.recipes, id)
	return nil
}

func (r *fakeRecipeRepo) GetByID(_ context.Context, id int64) (*domain.Recipe, error) {
	rc, ok := r.recipes[id]
	if !ok {
		return nil, e.ErrRecipeNotFound
	}
	return &rc, nil
}

func (r *fakeRecipeRepo) List(_ context.Context, filter *RecipeFilter) ([]domain.Recipe, int, error) {
	r.filter = filter
	return r.list, r.total, nil
}

func (r *fakeRecipeRepo) ExistingIDs(_ context.Context, ids []int64) ([]int64, error) {
	var res []int64
	for _, id := range ids {
		if _, ok := r.recipes[id]; ok {
			res = append(res, id)
		}
	}
	return res, nil
}

func (r *fakeRecipeRepo) SetImageKey(_ context.Context, id int64, key *string) error {
	if r.keyErr != nil {
		return r.keyErr
	}
	rc := r.recipes[id]
	rc.ImageKey = key
	r.recipes[id] = rc
	return nil
}

type fakeIngredientRepo struct {
	ingredients map[int64]domain.Ingredient
	nextID      int64
}

func newFakeIngredientRepo(ingredients ...domain.Ingredient) *fakeIngredientRepo {
	r := &fakeIngredientRepo{ingredients: make(map[int64]domain.Ingredient)}
	for _, ing := range ingredients {
		r.nextID++
		ing.ID = r.nextID
		r.ingredients[ing.ID] = ing
	}
	return r
}

func (r *fakeIngredientRepo) Add(_ context.Context, ingredient *domain.Ingredient) (*domain.Ingredient, error) {
	for _, ing := range r.ingredients {
		if ing.RecipeID == ingredient.RecipeID && ing.ProductID == ingredient.ProductID {
			return nil, e.ErrIngredientExists
		}
	}
	r.nextID++
	ingredient.ID = r.nextID
	r.ingredients[ingredient.ID] = *ingredient
	return ingredient, nil
}

func (r *fakeIngredientRepo) Update(_ context.Context, ingredient *domain.Ingredient) (*domain.Ingredient, error) {
	r.ingredients[ingredient.ID] = *ingredient
	return ingredient, nil
}

func (r *fakeIngredientRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.ingredients[id]; !ok {
		return e.ErrIngredientNotFound
	}
	delete(r.ingredients, id)
	return nil
}

func (r *fakeIngredientRepo) GetByID(_ context.Context, id int64) (*domain.Ingredient, error) {
	ing, ok := r.ingredients[id]
	if !ok {
		return nil, e.ErrIngredientNotFound
	}
	return &ing, nil
}

func (r *fakeIngredientRepo) ListByRecipe(_ context.Context, recipeID int64) ([]domain.Ingredient, error) {
	var res []domain.Ingredient
	for _, ing := range r.ingredients {
		if ing.RecipeID == recipeID {
			res = append(res, ing)
		}
	}
	return res, nil
}

func (r *fakeIngredientRepo) ListByRecipes(_ context.Context, recipeIDs []int64) (map[int64][]domain.Ingredient, error) {
	res := make(map[int64][]domain.Ingredient)
	for _, ing := range r.ingredients {
		if slices.Contains(recipeIDs, ing.RecipeID) {
			res[ing.RecipeID] = append(res[ing.RecipeID], ing)
		}
	}
	return res, nil
}

type fakeOrderRepo struct {
	orders    map[int64]domain.Order
	nextID    int64
	createErr error
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[int64]domain.Order)}
}

func (r *fakeOrderRepo) snapshot() func() {
	orders := make(map[int64]domain.Order, len(r.orders))
	for id, o := range r.orders {
		orders[id] = o
	}
	nextID := r.nextID
	return func() {
		r.orders = orders
		r.nextID = nextID
	}
}

func (r *fakeOrderRepo) Create(_ context.Context, order *domain.Order) (*domain.Order, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.nextID++
	order.ID = r.nextID
	order.CreatedAt = time.Now().UTC()
	items := make([]domain.OrderItem, len(order.Items))
	for i, it := range order.Items {
		it.OrderID = order.ID
		items[i] = it
	}
	order.Items = items
	stored := *order
	stored.Items = slices.Clone(items)
	r.orders[order.ID] = stored
	return order, nil
}

func (r *fakeOrderRepo) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, e.ErrOrderNotFound
	}
	return &o, nil
}

func (r *fakeOrderRepo) List(_ context.Context, userID *int64) ([]domain.Order, error) {
	var res []domain.Order
	for _, o := range r.orders {
		if userID == nil || o.UserID == *userID {
			res = append(res, o)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID > res[j].ID })
	return res, nil
}

func (r *fakeOrderRepo) UpdateStatus(_ context.Context, id int64, status domain.OrderStatus) (*domain.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, e.ErrOrderNotFound
	}
	o.Status = status
	r.orders[id] = o
	return &o, nil
}

type fakeUserRepo struct {
	users  map[int64]domain.User
	nextID int64
}

func newFakeUserRepo(users ...domain.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[int64]domain.User)}
	for _, u := range users {
		r.users[u.ID] = u
		if u.ID > r.nextID {
			r.nextID = u.ID
		}
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, e.ErrEmailTaken
		}
	}
	r.nextID++
	user.ID = r.nextID
	r.users[user.ID] = *user
	return user, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, e.ErrUserNotFound
	}
	return &u, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, e.ErrUserNotFound
}

func (r *fakeUserRepo) SetRole(_ context.Context, id int64, role domain.Role) error {
	u, ok := r.users[id]
	if !ok {
		return e.ErrUserNotFound
	}
	u.Role = role
	r.users[id] = u
	return nil
}

type fakeOutboxRepo struct {
	events    []*OutboxEvent
	createErr error
}

func (r *fakeOutboxRepo) snapshot() func() {
	events := slices.Clone(r.events)
	return func() { r.events = events }
}

func (r *fakeOutboxRepo) Create(_ context.Context, event *OutboxEvent) (*OutboxEvent, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	event.ID = int64(len(r.events) + 1)
	r.events = append(r.events, event)
	return event, nil
}

func (r *fakeOutboxRepo) GetAndMarkAsProcessing(context.Context, int) ([]*OutboxEvent, error) {
	return nil, nil
}

func (r *fakeOutboxRepo) MarkAsProcessed(context.Context, int64) error { return nil }

func (r *fakeOutboxRepo) MarkAsPending(context.Context, int64) error { return nil }

type fakeEncoder struct{}

func (fakeEncoder) EncodeOrderEvent(eventID string, eventType OutboxEventType, order *domain.Order) ([]byte, error) {
	return []byte(fmt.Sprintf("%s|%s|%d", eventID, eventType, order.ID)), nil
}

type fakeCache struct {
	mu       sync.Mutex
	products map[int64]domain.Product
	getErr   error
	deleted  []int64
}

func newFakeCache() *fakeCache {
	return &fakeCache{products: make(map[int64]domain.Product)}
}

func (c *fakeCache) GetProducts(_ context.Context, ids []int64) (map[int64]domain.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, c.getErr
	}
	res := make(map[int64]domain.Product)
	for _, id := range ids {
		if p, ok := c.products[id]; ok {
			res[id] = p
		}
	}
	return res, nil
}

func (c *fakeCache) SetProducts(_ context.Context, products []domain.Product) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range products {
		c.products[p.ID] = p
	}
	return nil
}

func (c *fakeCache) DeleteProducts(_ context.Context, ids []int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range ids {
		delete(c.products, id)
	}
	c.deleted = append(c.deleted, ids...)
	return nil
}

type fakeImages struct {
	uploaded []string
	cleaned  []string
}

func (f *fakeImages) UploadImage(_ context.Context, req *UploadImageReq) (string, error) {
	key := fmt.Sprintf("%s/%d.jpg", req.Prefix, len(f.uploaded)+1)
	f.uploaded = append(f.uploaded, key)
	return key, nil
}

func (f *fakeImages) CleanupImages(keys []string) {
	f.cleaned = append(f.cleaned, keys...)
}

func (f *fakeImages) PresignedURL(_ context.Context, key string) (string, error) {
	return "http://minio/" + key + "?sig", nil
}

type fakeTokenRepo struct {
	revoked map[string]time.Duration
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{revoked: make(map[string]time.Duration)}
}

func (r *fakeTokenRepo) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	r.revoked[tokenID] = ttl
	return nil
}

func (r *fakeTokenRepo) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	_, ok := r.revoked[tokenID]
	return ok, nil
}

type fakeTokens struct {
	issued int
}

func (t *fakeTokens) Issue(user *domain.User) (*IssuedToken, error) {
	t.issued++
	id := fmt.Sprintf("jti-%d", t.issued)
	return &IssuedToken{
		Token:     fmt.Sprintf("%d:%s:%s", user.ID, user.Role, id),
		TokenID:   id,
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil
}

func (t *fakeTokens) Parse(token string) (*TokenClaims, error) {
	var (
		userID int64
		role   string
		id     string
	)
	if _, err := fmt.Sscanf(token, "%d:%s", &userID, &role); err != nil {
		return nil, err
	}
	for i := len(role) - 1; i >= 0; i-- {
		if role[i] == ':' {
			id = role[i+1:]
			role = role[:i]
			break
		}
	}
	if id == "" {
		return nil, fmt.Errorf("malformed token")
	}
	return &TokenClaims{UserID: userID, Role: domain.Role(role), TokenID: id, ExpiresAt: time.Now().Add(time.Hour)}, nil
}

// plainHasher хранит пароль с префиксом, чтобы тесты не зависели от bcrypt.
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) {
	return "hash:" + password, nil
}

func (plainHasher) Compare(hash, password string) error {
	if hash != "hash:"+password {
		return fmt.Errorf("mismatch")
	}
	return nil
}
