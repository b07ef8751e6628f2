package main

import (
	"context"
	"os"

	"go.uber.org/zap"

	"instrument-inventory/app"
	"instrument-inventory/config"
	"instrument-inventory/controllers"
	"instrument-inventory/jobs"
	"instrument-inventory/logger"
	"instrument-inventory/routes"
)

func main() {
	logger.Init()
	config.LoadEnv()

	application := app.MustNew()
	defer application.Close()

	r := application.Router

	// Health
	r.GET("/healthz", func(c *app.Ctx) { c.JSON(200, app.H{"ok": true}) })

	routes.RegisterRoutes(r, application)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := controllers.GetSrv(application)
	app.BootstrapFirstAdmin(ctx, application.Config, srv.Repo)

	sweeper := jobs.NewOverdueSweeper(srv.Repo, application.RDB, application.Config.SweepInterval)
	sweeper.Start(ctx)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3001"
	}
	logger.Info("listening", zap.String("port", port))
	if err := r.Run(":" + port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
