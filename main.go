package main

import (
	"log"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"

	"github.com/emmaotero/APPreventa/condb"
	"github.com/emmaotero/APPreventa/logger"
	"github.com/emmaotero/APPreventa/routes"
)

func main() {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = "info"
	}
	nLogger, err := logger.NewLogger(level)
	if err != nil {
		log.Fatalln(err)
	}

	if err := condb.Connect(nLogger); err != nil {
		nLogger.Error("database init failed", zap.Error(err))
		os.Exit(1)
	}
	defer condb.Close()

	app := fiber.New()

	allow := os.Getenv("ALLOW_ORIGINS")
	if strings.TrimSpace(allow) == "" {
		// dev defaults
		allow = "http://127.0.0.1:5500,http://localhost:5500,http://localhost:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allow, // comma separated
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		ExposeHeaders:    "Set-Cookie",
		AllowCredentials: true,
	}))

	routes.RegisterRoutes(app)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	nLogger.Info("listening", zap.String("port", port))
	if err := app.Listen(":" + port); err != nil {
		nLogger.Error("server stopped", zap.Error(err))
		os.Exit(1)
	}
}
