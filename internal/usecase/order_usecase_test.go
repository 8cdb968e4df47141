package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/DRSN-tech/recipe-cart/internal/domain"
	"github.com/DRSN-tech/recipe-cart/pkg/e"
	"github.com/DRSN-tech/recipe-cart/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderFixture struct {
	uc          *OrderUseCase
	products    *fakeProductRepo
	recipes     *fakeRecipeRepo
	ingredients *fakeIngredientRepo
	orders      *fakeOrderRepo
	users       *fakeUserRepo
	outbox      *fakeOutboxRepo
	tx          *fakeTx
}

func newOrderFixture() *orderFixture {
	f := &orderFixture{
		products: newFakeProductRepo(
			domain.Product{ID: 10, Name: "Flour", Price: dec("2.50")},
			domain.Product{ID: 20, Name: "Milk", Price: dec("1.20")},
			domain.Product{ID: 30, Name: "Eggs", Price: dec("3.00")},
			domain.Product{ID: 40, Name: "Sugar", Price: dec("0.99")},
		),
		recipes: newFakeRecipeRepo(
			domain.Recipe{ID: 1, Name: "Pancakes"},
			domain.Recipe{ID: 2, Name: "Crepes"},
			domain.Recipe{ID: 3, Name: "Omelette"},
		),
		ingredients: newFakeIngredientRepo(
			domain.Ingredient{RecipeID: 1, ProductID: 10, Quantity: dec("0.5")},
			domain.Ingredient{RecipeID: 1, ProductID: 20, Quantity: dec("2")},
			domain.Ingredient{RecipeID: 2, ProductID: 10, Quantity: dec("0.3")},
			domain.Ingredient{RecipeID: 3, ProductID: 30, Quantity: dec("4")},
		),
		orders: newFakeOrderRepo(),
		users: newFakeUserRepo(
			domain.User{ID: 1, Name: "Alice", Email: "alice@example.com", Role: domain.RoleUser},
			domain.User{ID: 2, Name: "Bob", Email: "bob@example.com", Role: domain.RoleUser},
		),
		outbox: &fakeOutboxRepo{},
	}

	f.tx = &fakeTx{repos: []txParticipant{f.orders, f.outbox}}
	f.uc = NewOrderUC(f.products, f.recipes, f.ingredients, f.orders, f.users, f.outbox,
		fakeEncoder{}, f.tx, logger.NewNopLogger())

	return f
}

func TestCreateOrder(t *testing.T) {
	f := newOrderFixture()

	order, err := f.uc.CreateOrder(context.Background(), testUser, NewCreateOrderReq([]OrderLine{
		{ProductID: 20, Quantity: dec("2")},
		{ProductID: 10, Quantity: dec("1.5")},
	}))
	require.NoError(t, err)

	assert.Equal(t, testUser.UserID, order.UserID)
	assert.Equal(t, domain.OrderPending, order.Status)
	require.Len(t, order.Items, 2)
	assert.Equal(t, int64(10), order.Items[0].ProductID)
	assert.Equal(t, "2.50", order.Items[0].Price.StringFixed(2))
	// 2.50*1.5 + 1.20*2 = 3.75 + 2.40
	assert.Equal(t, "6.15", order.TotalAmount.StringFixed(2))

	require.Len(t, f.outbox.events, 1)
	assert.Equal(t, OrderCreated, f.outbox.events[0].EventType)
	assert.Equal(t, order.ID, f.outbox.events[0].AggregateID)
	assert.Equal(t, Pending, f.outbox.events[0].Status)
}

func TestCreateOrderErrors(t *testing.T) {
	tests := []struct {
		name    string
		caller  domain.Caller
		lines   []OrderLine
		wantErr error
	}{
		{
			name:    "admin cannot order",
			caller:  testAdmin,
			lines:   []OrderLine{{ProductID: 10, Quantity: dec("1")}},
			wantErr: e.ErrOnlyUsersCanOrder,
		},
		{
			name:    "empty cart",
			caller:  testUser,
			wantErr: e.ErrNoItems,
		},
		{
			name:    "unknown product",
			caller:  testUser,
			lines:   []OrderLine{{ProductID: 10, Quantity: dec("1")}, {ProductID: 777, Quantity: dec("1")}},
			wantErr: e.ErrUnknownProduct,
		},
		{
			name:    "duplicate product",
			caller:  testUser,
			lines:   []OrderLine{{ProductID: 10, Quantity: dec("1")}, {ProductID: 10, Quantity: dec("1")}},
			wantErr: e.ErrDuplicateProduct,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newOrderFixture()

			_, err := f.uc.CreateOrder(context.Background(), tt.caller, NewCreateOrderReq(tt.lines))
			require.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.orders.orders)
			assert.Empty(t, f.outbox.events)
		})
	}
}

func TestCreateOrderFromRecipes(t *testing.T) {
	f := newOrderFixture()

	order, err := f.uc.CreateOrderFromRecipes(context.Background(), testUser,
		NewCreateOrderFromRecipesReq([]int64{1, 2}, []int64{30}, []int64{20}))
	require.NoError(t, err)

	require.Len(t, order.Items, 2)
	assert.Equal(t, int64(10), order.Items[0].ProductID)
	assert.Equal(t, "0.80", order.Items[0].Quantity.StringFixed(2))
	assert.Equal(t, int64(30), order.Items[1].ProductID)
	assert.Equal(t, "1.00", order.Items[1].Quantity.StringFixed(2))
	// 2.50*0.8 + 3.00*1 = 2.00 + 3.00
	assert.Equal(t, "5.00", order.TotalAmount.StringFixed(2))

	// Продукты загружаются одним запросом
	assert.Equal(t, 1, f.products.calls)
}

func TestCreateOrderFromRecipesErrors(t *testing.T) {
	tests := []struct {
		name    string
		req     *CreateOrderFromRecipesReq
		wantErr error
	}{
		{
			name:    "no recipes",
			req:     NewCreateOrderFromRecipesReq(nil, nil, nil),
			wantErr: e.ErrNoRecipes,
		},
		{
			name:    "duplicate recipe",
			req:     NewCreateOrderFromRecipesReq([]int64{1, 1}, nil, nil),
			wantErr: e.ErrDuplicateRecipe,
		},
		{
			name:    "unknown recipe",
			req:     NewCreateOrderFromRecipesReq([]int64{1, 404}, nil, nil),
			wantErr: e.ErrUnknownRecipe,
		},
		{
			name:    "unknown include product",
			req:     NewCreateOrderFromRecipesReq([]int64{1}, []int64{555}, nil),
			wantErr: e.ErrUnknownProduct,
		},
		{
			name:    "unknown exclude product",
			req:     NewCreateOrderFromRecipesReq([]int64{1}, nil, []int64{556}),
			wantErr: e.ErrUnknownProduct,
		},
		{
			name:    "every product excluded",
			req:     NewCreateOrderFromRecipesReq([]int64{3}, nil, []int64{30}),
			wantErr: e.ErrEmptyCart,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newOrderFixture()

			_, err := f.uc.CreateOrderFromRecipes(context.Background(), testUser, tt.req)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.orders.orders)
			assert.Empty(t, f.outbox.events)
		})
	}
}

func TestOrderKeepsPriceSnapshot(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	order, err := f.uc.CreateOrder(ctx, testUser, NewCreateOrderReq([]OrderLine{{ProductID: 10, Quantity: dec("2")}}))
	require.NoError(t, err)

	product := f.products.products[10]
	product.Price = dec("9.99")
	f.products.products[10] = product

	stored, err := f.uc.GetOrder(ctx, testUser, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "2.50", stored.Items[0].Price.StringFixed(2))
	assert.Equal(t, "5.00", stored.TotalAmount.StringFixed(2))
}

func TestCreateOrderRollsBackOnStorageFailure(t *testing.T) {
	errOutbox := errors.New("outbox insert failed")
	errOrders := errors.New("orders insert failed")

	tests := []struct {
		name   string
		fail   func(f *orderFixture)
		create func(f *orderFixture) (*domain.Order, error)
		want   error
	}{
		{
			name: "direct order, outbox fails after order insert",
			fail: func(f *orderFixture) { f.outbox.createErr = errOutbox },
			create: func(f *orderFixture) (*domain.Order, error) {
				return f.uc.CreateOrder(context.Background(), testUser,
					NewCreateOrderReq([]OrderLine{{ProductID: 10, Quantity: dec("1")}}))
			},
			want: errOutbox,
		},
		{
			name: "direct order, order insert fails",
			fail: func(f *orderFixture) { f.orders.createErr = errOrders },
			create: func(f *orderFixture) (*domain.Order, error) {
				return f.uc.CreateOrder(context.Background(), testUser,
					NewCreateOrderReq([]OrderLine{{ProductID: 10, Quantity: dec("1")}}))
			},
			want: errOrders,
		},
		{
			name: "recipes order, outbox fails after order insert",
			fail: func(f *orderFixture) { f.outbox.createErr = errOutbox },
			create: func(f *orderFixture) (*domain.Order, error) {
				return f.uc.CreateOrderFromRecipes(context.Background(), testUser,
					NewCreateOrderFromRecipesReq([]int64{1}, nil, nil))
			},
			want: errOutbox,
		},
		{
			name: "recipes order, order insert fails",
			fail: func(f *orderFixture) { f.orders.createErr = errOrders },
			create: func(f *orderFixture) (*domain.Order, error) {
				return f.uc.CreateOrderFromRecipes(context.Background(), testUser,
					NewCreateOrderFromRecipesReq([]int64{1}, nil, nil))
			},
			want: errOrders,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newOrderFixture()
			tt.fail(f)

			order, err := tt.create(f)
			require.ErrorIs(t, err, tt.want)
			assert.Nil(t, order)

			assert.Equal(t, 1, f.tx.rollbacks)
			assert.Empty(t, f.orders.orders)
			assert.Empty(t, f.outbox.events)

			list, err := f.uc.ListOrders(context.Background(), testUser)
			assert.ErrorIs(t, err, e.ErrNoOrders)
			assert.Empty(t, list)
		})
	}
}

func TestGetOrderVisibility(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	order, err := f.uc.CreateOrder(ctx, testUser, NewCreateOrderReq([]OrderLine{{ProductID: 10, Quantity: dec("1")}}))
	require.NoError(t, err)

	_, err = f.uc.GetOrder(ctx, testOther, order.ID)
	assert.ErrorIs(t, err, e.ErrForbidden)

	got, err := f.uc.GetOrder(ctx, testAdmin, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	_, err = f.uc.GetOrder(ctx, testAdmin, 12345)
	assert.ErrorIs(t, err, e.ErrNotFound)
}

func TestListOrders(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	_, err := f.uc.ListOrders(ctx, testUser)
	require.ErrorIs(t, err, e.ErrNoOrders)

	line := []OrderLine{{ProductID: 10, Quantity: dec("1")}}
	_, err = f.uc.CreateOrder(ctx, testUser, NewCreateOrderReq(line))
	require.NoError(t, err)
	_, err = f.uc.CreateOrder(ctx, testOther, NewCreateOrderReq(line))
	require.NoError(t, err)
	last, err := f.uc.CreateOrder(ctx, testUser, NewCreateOrderReq(line))
	require.NoError(t, err)

	own, err := f.uc.ListOrders(ctx, testUser)
	require.NoError(t, err)
	require.Len(t, own, 2)
	assert.Equal(t, last.ID, own[0].ID)

	all, err := f.uc.ListOrders(ctx, testAdmin)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestListUserOrders(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	_, err := f.uc.ListUserOrders(ctx, testUser, 2)
	require.ErrorIs(t, err, e.ErrAdminOnly)

	_, err = f.uc.ListUserOrders(ctx, testAdmin, 404)
	require.ErrorIs(t, err, e.ErrUserNotFound)

	_, err = f.uc.CreateOrder(ctx, testOther, NewCreateOrderReq([]OrderLine{{ProductID: 20, Quantity: dec("1")}}))
	require.NoError(t, err)

	res, err := f.uc.ListUserOrders(ctx, testAdmin, 2)
	require.NoError(t, err)
	assert.Equal(t, "Bob", res.User.Name)
	assert.Len(t, res.Orders, 1)
}

func TestUpdateOrderStatus(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()

	order, err := f.uc.CreateOrder(ctx, testUser, NewCreateOrderReq([]OrderLine{{ProductID: 10, Quantity: dec("1")}}))
	require.NoError(t, err)

	_, err = f.uc.UpdateOrderStatus(ctx, testUser, NewUpdateOrderStatusReq(order.ID, domain.OrderPaid))
	require.ErrorIs(t, err, e.ErrAdminOnly)

	_, err = f.uc.UpdateOrderStatus(ctx, testAdmin, NewUpdateOrderStatusReq(order.ID, "shipped"))
	require.ErrorIs(t, err, e.ErrInvalidStatus)

	updated, err := f.uc.UpdateOrderStatus(ctx, testAdmin, NewUpdateOrderStatusReq(order.ID, domain.OrderPaid))
	require.NoError(t, err)
	assert.Equal(t, domain.OrderPaid, updated.Status)
	assert.True(t, order.TotalAmount.Equal(updated.TotalAmount))

	require.Len(t, f.outbox.events, 2)
	assert.Equal(t, OrderStatusUpdated, f.outbox.events[1].EventType)
}
