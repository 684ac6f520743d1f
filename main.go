package main

import (
	"fmt"
	"log"
	"os"

	"questlog/auth"
	"questlog/config"
	"questlog/middleware"
	"questlog/models"
	"questlog/routes"
	"questlog/sessions"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func main() {
	root := &cobra.Command{
		Use:   "questlog",
		Short: "Campaign tracker API for tabletop role-playing games",
	}
	root.AddCommand(serveCmd(), migrateCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Migrate the database and start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			db, err := openAndMigrate(cfg)
			if err != nil {
				return err
			}

			store, err := newSessionStore(cfg)
			if err != nil {
				return err
			}
			sessionManager := sessions.NewManager(auth.NewTokenIssuer(cfg.SecretKey, cfg.SessionTTL), store)

			router := routes.NewRouter(routes.Dependencies{
				DB:           db,
				Sessions:     sessionManager,
				Metrics:      middleware.NewMetrics(),
				CORSOrigins:  cfg.CORSOrigins,
				CookieSecure: cfg.CookieSecure,
				StaticDir:    cfg.StaticDir,
			})

			log.Printf("Server starting on %s", cfg.ListenAddr())
			return router.Run(cfg.ListenAddr())
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if _, err := openAndMigrate(cfg); err != nil {
				return err
			}
			log.Println("Database schema is up to date")
			return nil
		},
	}
}

func openAndMigrate(cfg *config.Config) (*gorm.DB, error) {
	db, err := config.InitDB(cfg)
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(models.All()...); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}

func newSessionStore(cfg *config.Config) (sessions.Store, error) {
	switch cfg.SessionStore {
	case "redis":
		client, err := config.InitRedis(cfg)
		if err != nil {
			return nil, err
		}
		log.Printf("Sessions stored in Redis at %s:%s", cfg.RedisHost, cfg.RedisPort)
		return sessions.NewRedisStore(client), nil
	case "memory":
		log.Println("Sessions stored in memory; they will not survive a restart")
		return sessions.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported SESSION_STORE %q", cfg.SessionStore)
	}
}
