package http

import (
	_ "github.com/DRSN-tech/recipe-cart/docs" // Импорт сгенерированных файлов
	"github.com/DRSN-tech/recipe-cart/internal/usecase"
	"github.com/DRSN-tech/recipe-cart/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// UseCases — зависимости HTTP-слоя.
type UseCases struct {
	Auth         usecase.AuthUC
	Products     usecase.ProductUC
	Recipes      usecase.RecipeUC
	Ingredients  usecase.IngredientUC
	Orders       usecase.OrderUC
	MaxImageSize int64
}

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

func (r *Router) Init(uc UseCases) {
	r.router.Use(middleware.RequestID)
	r.router.Use(middleware.RealIP)
	r.router.Use(requestLogger(r.logger))
	r.router.Use(middleware.Recoverer)

	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	authHandler := NewAuthHandler(uc.Auth, r.logger)
	prHandler := NewProductHandler(uc.Products, r.logger)
	recipeHandler := NewRecipeHandler(uc.Recipes, uc.MaxImageSize, r.logger)
	ingHandler := NewIngredientHandler(uc.Ingredients, r.logger)
	orderHandler := NewOrderHandler(uc.Orders, r.logger)

	r.router.Route("/api/v1", func(v1 chi.Router) {
		// Публичные маршруты
		v1.Post("/register", authHandler.register)
		v1.Post("/login", authHandler.login)

		v1.Get("/products", prHandler.listProducts)
		v1.Get("/products/{id}", prHandler.getProduct)

		v1.Get("/recipes", recipeHandler.listRecipes)
		v1.Get("/recipes/{id}", recipeHandler.getRecipe)
		v1.Get("/recipes/{id}/image", recipeHandler.getImage)
		v1.Get("/recipes/{id}/ingredients", ingHandler.listForRecipe)

		v1.Group(func(private chi.Router) {
			private.Use(authMiddleware(uc.Auth, r.logger))

			private.Post("/logout", authHandler.logout)
			private.Get("/me", authHandler.me)

			registerProductRoutes(private, prHandler)
			registerRecipeRoutes(private, recipeHandler, ingHandler)
			registerOrderRoutes(private, orderHandler)
		})
	})
}

// Публичные GET и защищённые маршруты делят одни пути, поэтому регистрируются плоско, без Mount.
func registerProductRoutes(router chi.Router, prHandler *ProductHandler) {
	router.Post("/products", prHandler.createProduct)
	router.Put("/products/{id}", prHandler.updateProduct)
	router.Delete("/products/{id}", prHandler.deleteProduct)
}

func registerRecipeRoutes(router chi.Router, recipeHandler *RecipeHandler, ingHandler *IngredientHandler) {
	router.Post("/recipes", recipeHandler.createRecipe)
	router.Put("/recipes/{id}", recipeHandler.updateRecipe)
	router.Delete("/recipes/{id}", recipeHandler.deleteRecipe)
	router.Post("/recipes/{id}/image", recipeHandler.uploadImage)
	router.Post("/recipes/{id}/ingredients", ingHandler.addToRecipe)

	router.Put("/ingredients/{id}", ingHandler.updateIngredient)
	router.Delete("/ingredients/{id}", ingHandler.deleteIngredient)
}

func registerOrderRoutes(router chi.Router, orderHandler *OrderHandler) {
	router.Route("/orders", func(or chi.Router) {
		or.Get("/", orderHandler.listOrders)
		or.Post("/", orderHandler.createOrder)
		or.Post("/from-recipes", orderHandler.createOrderFromRecipes)
		or.Get("/{id}", orderHandler.getOrder)
		or.Put("/{id}", orderHandler.updateOrderStatus)
	})

	router.Get("/users/{id}/orders", orderHandler.listUserOrders)
}
