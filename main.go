package main

import (
	"context"
	"log"
	"os"

	"github.com/Romain-GUILLEMOT/TubeBack/api"
	"github.com/Romain-GUILLEMOT/TubeBack/config"
	"github.com/Romain-GUILLEMOT/TubeBack/db"
	"github.com/Romain-GUILLEMOT/TubeBack/handlers"
	"github.com/Romain-GUILLEMOT/TubeBack/handlers/auth"
	"github.com/Romain-GUILLEMOT/TubeBack/registration"
	"github.com/Romain-GUILLEMOT/TubeBack/utils"
	"github.com/Romain-GUILLEMOT/TubeBack/utils/dbTools"
	"github.com/Romain-GUILLEMOT/TubeBack/utils/emailcheck"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"
)

type userStore interface {
	registration.UserStore
	auth.Accounts
}

func main() {
	defer utils.HandlePanic()
	if err := godotenv.Load(); err != nil {
		log.Println(".env not found, using process environment")
	}

	cfg := config.LoadConfig()
	utils.InitLogger(cfg.Debug)

	app := fiber.New(fiber.Config{
		BodyLimit:    cfg.BodyLimitMB * 1024 * 1024,
		ErrorHandler: utils.NewErrorHandler(cfg.ErrorReportEmail != "" && cfg.MailEnabled()),
	})
	if cfg.Debug {
		utils.Info("Running in debug mode")
		app.Use(logger.New())
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization,X-Refresh-Token,X-Requested-With",
		AllowMethods:     "GET,POST,OPTIONS",
		AllowCredentials: cfg.CORSOrigins != "*",
	}))

	if err := os.MkdirAll(cfg.UploadDir, 0o750); err != nil {
		utils.Fatal("Upload dir unusable", "dir", cfg.UploadDir, "err", err)
	}

	store := openStore(cfg)
	media := utils.MinioInit(context.Background())
	utils.InitRedis()

	var notifier registration.Notifier
	if cfg.MailEnabled() {
		utils.InitMailer()
		if cfg.WelcomeMail {
			notifier = utils.WelcomeMailer{}
		}
	}

	opts := registration.Options{
		RollbackUploads: cfg.RollbackUploads,
		Notifier:        notifier,
	}
	if cfg.BlockDisposableEmails {
		opts.EmailCheck = emailcheck.Check
	}
	svc := registration.NewService(store, media, opts)

	api.SetupRoutes(app, api.Deps{
		Auth:      auth.NewHandler(svc, store),
		Users:     handlers.NewUserHandler(store),
		UploadDir: cfg.UploadDir,
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}

func openStore(cfg *config.Config) userStore {
	switch cfg.StoreDriver {
	case "scylla":
		session := db.ConnectDB()
		db.ApplyMigrations(session)
		return dbTools.NewScyllaUserStore(session)
	case "postgres", "sqlite":
		conn, err := db.OpenSQL(cfg.StoreDriver, cfg.DatabaseURL, cfg.Debug)
		if err != nil {
			utils.Fatal("SQL store unavailable", "driver", cfg.StoreDriver, "err", err)
		}
		utils.Success("SQL store ready", "driver", cfg.StoreDriver)
		return dbTools.NewSQLUserStore(conn)
	}
	utils.Fatal("Unknown STORE_DRIVER", "driver", cfg.StoreDriver)
	return nil
}
