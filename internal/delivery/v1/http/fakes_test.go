package http

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DRSN-tech/recipe-cart/internal/domain"
	"github.com/DRSN-tech/recipe-cart/internal/usecase"
	"github.com/DRSN-tech/recipe-cart/pkg/e"
	"github.com/DRSN-tech/recipe-cart/pkg/logger"
	"github.com/go-chi/chi/v5"
)

const (
	userToken  = "user-token"
	adminToken = "admin-token"
)

type fakeAuthUC struct {
	usecase.AuthUC
	loggedOut []domain.Caller
}

func (f *fakeAuthUC) Authenticate(_ context.Context, token string) (*usecase.TokenClaims, error) {
	exp := time.Now().Add(time.Hour)
	switch token {
	case userToken:
		return &usecase.TokenClaims{UserID: 1, Role: domain.RoleUser, TokenID: "jti-user", ExpiresAt: exp}, nil
	case adminToken:
		return &usecase.TokenClaims{UserID: 99, Role: domain.RoleAdmin, TokenID: "jti-admin", ExpiresAt: exp}, nil
	default:
		return nil, e.Wrap("fakeAuthUC.Authenticate", e.ErrInvalidToken)
	}
}

func (f *fakeAuthUC) Register(_ context.Context, req *usecase.RegisterReq) (*usecase.AuthRes, error) {
	if req.Email == "taken@example.com" {
		return nil, e.Wrap("fakeAuthUC.Register", e.ErrEmailTaken)
	}
	return &usecase.AuthRes{
		User:  &domain.User{ID: 5, Name: req.Name, Email: req.Email, Role: domain.RoleUser},
		Token: &usecase.IssuedToken{Token: "tok", TokenID: "jti", ExpiresAt: time.Now().Add(time.Hour)},
	}, nil
}

func (f *fakeAuthUC) Logout(_ context.Context, caller domain.Caller) error {
	f.loggedOut = append(f.loggedOut, caller)
	return nil
}

func (f *fakeAuthUC) Me(_ context.Context, caller domain.Caller) (*domain.User, error) {
	return &domain.User{ID: caller.UserID, Name: "Ann", Email: "ann@example.com", Role: caller.Role}, nil
}

type fakeOrderUC struct {
	usecase.OrderUC
	createReq      *usecase.CreateOrderReq
	fromRecipesReq *usecase.CreateOrderFromRecipesReq
	statusReq      *usecase.UpdateOrderStatusReq
	caller         domain.Caller
	err            error
}

func (f *fakeOrderUC) CreateOrder(_ context.Context, caller domain.Caller, req *usecase.CreateOrderReq) (*domain.Order, error) {
	f.caller, f.createReq = caller, req
	if f.err != nil {
		return nil, f.err
	}

	items := make([]domain.OrderItem, 0, len(req.Items))
	for _, l := range req.Items {
		items = append(items, domain.OrderItem{ProductID: l.ProductID, ProductName: fmt.Sprintf("p%d", l.ProductID), Quantity: l.Quantity, Price: l.Quantity})
	}
	return &domain.Order{ID: 1, UserID: caller.UserID, Status: domain.OrderPending, Items: items}, nil
}

func (f *fakeOrderUC) CreateOrderFromRecipes(_ context.Context, caller domain.Caller, req *usecase.CreateOrderFromRecipesReq) (*domain.Order, error) {
	f.caller, f.fromRecipesReq = caller, req
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Order{ID: 2, UserID: caller.UserID, Status: domain.OrderPending}, nil
}

func (f *fakeOrderUC) GetOrder(_ context.Context, caller domain.Caller, id int64) (*domain.Order, error) {
	f.caller = caller
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Order{ID: id, UserID: caller.UserID, Status: domain.OrderPaid}, nil
}

func (f *fakeOrderUC) UpdateOrderStatus(_ context.Context, caller domain.Caller, req *usecase.UpdateOrderStatusReq) (*domain.Order, error) {
	f.caller, f.statusReq = caller, req
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Order{ID: req.OrderID, Status: req.Status}, nil
}

type fakeRecipeUC struct {
	usecase.RecipeUC
	listReq   *usecase.ListRecipesReq
	uploadReq *usecase.UploadRecipeImageReq
	imageURL  string
}

func (f *fakeRecipeUC) ListRecipes(_ context.Context, req *usecase.ListRecipesReq) (*usecase.ListRecipesRes, error) {
	f.listReq = req
	return &usecase.ListRecipesRes{
		Recipes: []domain.Recipe{{ID: 1, Name: "Блины", IngredientsCount: 3}},
		Meta:    usecase.PageMeta{Page: 2, PerPage: 1, Total: 4, LastPage: 4},
	}, nil
}

func (f *fakeRecipeUC) UploadRecipeImage(_ context.Context, _ domain.Caller, req *usecase.UploadRecipeImageReq) (*domain.Recipe, error) {
	f.uploadReq = req
	key := "recipes/1/x.png"
	return &domain.Recipe{ID: req.RecipeID, Name: "Блины", ImageKey: &key}, nil
}

func (f *fakeRecipeUC) RecipeImageURL(_ context.Context, id int64) (string, error) {
	if f.imageURL == "" {
		return "", e.Wrap("fakeRecipeUC.RecipeImageURL", e.ErrImageNotFound)
	}
	return f.imageURL, nil
}

type fakeProductUC struct {
	usecase.ProductUC
	infoReq *usecase.GetProductsReq
}

func (f *fakeProductUC) GetProductsInfo(_ context.Context, req *usecase.GetProductsReq) (*usecase.GetProductsRes, error) {
	f.infoReq = req
	return usecase.NewGetProductsRes([]domain.Product{{ID: req.IDs[0], Name: "Мука"}}, req.IDs[1:]), nil
}

func (f *fakeProductUC) ListProducts(_ context.Context, search string) ([]domain.Product, error) {
	if search == "none" {
		return nil, e.Wrap("fakeProductUC.ListProducts", e.ErrNoProducts)
	}
	return []domain.Product{{ID: 1, Name: "Мука"}}, nil
}

type testServer struct {
	handler http.Handler
	auth    *fakeAuthUC
	orders  *fakeOrderUC
	recipes *fakeRecipeUC
	prods   *fakeProductUC
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWithLogger(t, logger.NewNopLogger())
}

func newTestServerWithLogger(t *testing.T, log logger.Logger) *testServer {
	t.Helper()

	ts := &testServer{
		auth:    &fakeAuthUC{},
		orders:  &fakeOrderUC{},
		recipes: &fakeRecipeUC{},
		prods:   &fakeProductUC{},
	}

	mux := chi.NewRouter()
	NewRouter(mux, log).Init(UseCases{
		Auth:         ts.auth,
		Products:     ts.prods,
		Recipes:      ts.recipes,
		Orders:       ts.orders,
		MaxImageSize: 1 << 20,
	})
	ts.handler = mux

	return ts
}

func (ts *testServer) do(method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}
