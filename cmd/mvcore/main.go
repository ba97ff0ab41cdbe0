package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/srcfoundry/mvcore"
	_ "github.com/srcfoundry/mvcore/addons"
	"github.com/srcfoundry/mvcore/config"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	pprofAddr := flag.String("pprof", "localhost:6060", "pprof listen address, empty to disable")
	flag.Parse()

	cfg, err := config.Load(*configPath, ".env")
	if err != nil {
		log.Fatalln("failed to load config:", err)
	}

	app, err := mvcore.New(cfg)
	if err != nil {
		log.Fatalln("failed to create logger:", err)
	}
	logger := app.Logger()

	if len(*pprofAddr) > 0 {
		go func() {
			logger.Error("pprof server stopped", zap.Error(http.ListenAndServe(*pprofAddr, nil)))
		}()
	}

	ctx := context.Background()
	if err := app.Init(ctx); err != nil {
		logger.Error("failed to start mvcore", zap.Error(err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		logger.Error("server stopped", zap.Error(err))
		os.Exit(1)
	}
}
