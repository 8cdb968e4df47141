package main

import (
	"os"

	"github.com/DRSN-tech/recipe-cart/internal/app"
	config "github.com/DRSN-tech/recipe-cart/internal/cfg"
	"github.com/DRSN-tech/recipe-cart/pkg/logger"
)

//	@title						Recipe Cart API
//	@version					1.0
//	@description				Каталог продуктов, рецепты и заказы из рецептов.
//	@BasePath					/api/v1
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Значение вида "Bearer <token>".
func main() {
	log := logger.NewLogrusLogger()

	cfg, err := config.Load(log)
	if err != nil {
		log.Errorf(err, "failed to load config")
		os.Exit(1)
	}

	application, err := app.NewApp(cfg, log)
	if err != nil {
		log.Errorf(err, "failed to initialize app")
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		os.Exit(1)
	}
}
