package main

import (
	"FreshTrack/cmd/config"
	migration "FreshTrack/cmd/database/migrate"
	"FreshTrack/internal/utils"
	"context"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/gofiber/fiber/v2/log"
)

func main() {
	utils.LoadConfig()

	db, err := config.ConnectDB()
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	if err := migration.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	pageCache := config.ConnectCache()

	app, err := config.NewApp(db, pageCache)
	if err != nil {
		log.Fatalf("failed to create app: %v", err)
	}

	go func() {
		if err := app.Listen(":" + utils.GetConfig("APP_PORT")); err != nil {
			log.Errorf("server stopped: %v", err)
		}
	}()

	// single operation: the server drains before the cache and database close
	wait := gfshutdown.GracefulShutdown(context.Background(), 15*time.Second, map[string]gfshutdown.Operation{
		"freshtrack": func(ctx context.Context) error {
			if err := app.ShutdownWithContext(ctx); err != nil {
				log.Errorf("fiber shutdown: %v", err)
			}
			if err := pageCache.Close(); err != nil {
				log.Errorf("cache close: %v", err)
			}
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})
	os.Exit(<-wait)
}
