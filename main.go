package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/curbline/api-go/config"
	"github.com/curbline/api-go/routes"
	"github.com/curbline/api-go/store/postgres"
)

func main() {
	log := config.NewLogger()

	if err := godotenv.Load(); err != nil {
		log.Info("no .env file, using process environment")
	}

	db, err := config.InitDB()
	if err != nil {
		log.WithError(err).Fatal("initializing database")
	}

	rdb, err := config.NewRedis()
	if err != nil {
		log.WithError(err).Fatal("connecting to redis")
	}

	contentStore := postgres.New(db)

	r := gin.New()
	r.Use(gin.Recovery())

	views := routes.SetupRoutes(r, contentStore, rdb, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go views.Run(ctx, 30*time.Second)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.WithField("port", port).Info("starting server")
	if err := r.Run(":" + port); err != nil {
		log.WithError(err).Fatal("server exited")
	}
}
