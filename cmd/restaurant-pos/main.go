package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"restaurant-pos/internal/app/api"
	"restaurant-pos/internal/app/notifier"
	"restaurant-pos/internal/common/logger"
	"restaurant-pos/internal/config"
)

func main() {
	mode := flag.String("mode", "", "api | notifier")
	port := flag.Int("port", 0, "api: override HTTP port")
	flag.Parse()

	lg := logger.New("bootstrap")
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		lg.Error("config_load", err, nil)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.HTTP.Port = *port
	}

	switch *mode {
	case "api":
		lg.Info("service_started", map[string]any{"service": "api", "port": cfg.HTTP.Port})
		if err := api.Run(ctx, cfg, logger.New(cfg.Service)); err != nil {
			lg.Error("fatal", err, nil)
			os.Exit(1)
		}
	case "notifier":
		lg.Info("service_started", map[string]any{"service": "notifier"})
		if err := notifier.Run(ctx, cfg, logger.New(cfg.Service+"-notifier")); err != nil {
			lg.Error("fatal", err, nil)
			os.Exit(1)
		}
	default:
		fmt.Fprintln(os.Stderr, "--mode is required: api | notifier")
		os.Exit(2)
	}
}
