package main

import (
	"context"
	"log"

	"github.com/jengzang/tripmap-backend-go/internal/api"
	"github.com/jengzang/tripmap-backend-go/internal/config"
	"github.com/jengzang/tripmap-backend-go/internal/database"
	"github.com/jengzang/tripmap-backend-go/internal/handler"
	"github.com/jengzang/tripmap-backend-go/internal/repository"
	"github.com/jengzang/tripmap-backend-go/internal/search"
	"github.com/jengzang/tripmap-backend-go/internal/searchstore"
	"github.com/jengzang/tripmap-backend-go/internal/service"
)

func main() {
	// 加载配置
	cfg := config.Load()

	// 初始化数据库
	if err := database.Init(cfg.DBPath); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer database.Close()

	if err := database.Migrate(database.GetDB()); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// 初始化搜索索引
	store, err := searchstore.New(context.Background(), cfg.ElasticsearchURL, cfg.IndexPrefix)
	if err != nil {
		log.Fatal("Failed to connect to elasticsearch:", err)
	}

	links := repository.NewPlaceNoteRepository(database.GetDB())
	favorites := repository.NewFavoriteRepository(database.GetDB())
	counts := repository.NewNoteCountRepository(database.GetDB())

	var source search.Source
	switch cfg.SearchMode {
	case "upstream":
		source = search.NewUpstreamSource(cfg.UpstreamSearchURL)
	default:
		source = search.NewComposedSource(store, store, links)
	}

	searchService := service.NewSearchService(source, store)
	routeService := service.NewRouteService(searchService)
	favoriteService := service.NewFavoriteService(database.GetDB(), favorites, counts, store)

	handlers := api.Handlers{
		Search:   handler.NewSearchHandler(searchService),
		Route:    handler.NewRouteHandler(routeService),
		Favorite: handler.NewFavoriteHandler(favoriteService),
		Admin:    handler.NewAdminHandler(store, links),
		Auth:     handler.NewAuthHandler(cfg),
	}

	router := api.SetupRouter(cfg, handlers)

	// 启动服务器
	log.Printf("Server starting on port %s (search mode: %s)", cfg.Port, cfg.SearchMode)
	if err := router.Run(cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
