package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/inkwell-go/rtfstream/internal/cache"
	"github.com/inkwell-go/rtfstream/internal/config"
	"github.com/inkwell-go/rtfstream/internal/server"
	"github.com/inkwell-go/rtfstream/internal/store"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the rtfstream HTTP/WebSocket API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd)
		},
	}
}

func runServe(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	auth := server.NewAuthService(cfg.Auth.JWTSecret)

	var c *cache.Cache
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		c = cache.New(client, "rtfstream:parse:", 24*time.Hour)
	}

	var st store.Store
	switch cfg.Database.Driver {
	case "postgres":
		st, err = store.NewPostgres(cfg.Database.URL)
	default:
		st, err = store.NewSQLite(cfg.Database.URL)
	}
	if err != nil {
		return err
	}
	defer st.Close()

	srv := server.New(auth, c, st, sugar)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	sugar.Infow("rtfstream serving", "addr", addr, "driver", cfg.Database.Driver)
	return http.ListenAndServe(addr, srv)
}
