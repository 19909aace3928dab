package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/goserg/matchrating/bot/tgbot"
	"github.com/goserg/matchrating/internal/auth"
	"github.com/goserg/matchrating/internal/cache/mem"
	"github.com/goserg/matchrating/internal/config"
	"github.com/goserg/matchrating/internal/logger"
	"github.com/goserg/matchrating/internal/metrics"
	"github.com/goserg/matchrating/internal/service"
	"github.com/goserg/matchrating/internal/storage"
	"github.com/goserg/matchrating/internal/storage/sqlite"
	"github.com/goserg/matchrating/internal/web"
)

func main() {
	if err := run(); err != nil {
		fmt.Println(err.Error())
		os.Exit(1)
	}
}

func run() error {
	var serverConfigPath, botConfigPath string
	flag.StringVar(&serverConfigPath, "server-config", "configs/server.toml", "path to the server config")
	flag.StringVar(&botConfigPath, "bot-config", "configs/bot.toml", "path to the bot config")
	flag.Parse()

	cfg, err := config.New(serverConfigPath, botConfigPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	l := logger.New(cfg.Server.LogLevel)

	db, err := storage.Open(cfg.Server.SqliteFile)
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	defer db.Close()
	store := sqlite.New(l, db)
	l.WithField("file", cfg.Server.SqliteFile).Info("storage connected")

	m := metrics.New()
	cache := mem.New()
	playerService := service.NewPlayerService(l, store, store, cache, m)
	matchService := service.NewMatchService(l, store, store, store, playerService, m)
	if _, err := playerService.ListPlayers(context.Background()); err != nil {
		return fmt.Errorf("warm player cache: %w", err)
	}

	authService, err := auth.New(cfg.Server.Auth)
	if err != nil {
		return err
	}
	if !authService.Enabled() {
		l.Warn("auth secret is not set, writes are open to anonymous clients")
	}

	var bot *tgbot.Bot
	if cfg.TgBot.Enabled {
		bot, err = tgbot.New(l, cfg.TgBot, cfg.Server.PublicURL, matchService, store)
		if err != nil {
			return fmt.Errorf("telegram bot: %w", err)
		}
		matchService.SetNotifier(bot)
		go bot.Run()
	}

	server, err := web.New(l, cfg.Server, playerService, matchService, authService, m)
	if err != nil {
		return err
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.Serve()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err = <-serveErr:
	case sig := <-stop:
		l.WithField("signal", sig.String()).Info("shutting down")
		err = server.Shutdown()
		<-serveErr
	}
	if bot != nil {
		bot.Stop()
	}
	if err != nil {
		return fmt.Errorf("server: %w", err)
	}
	l.Info("stopped")
	return nil
}
