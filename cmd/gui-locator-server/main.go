package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/menta2k/gui-locator/internal/config"
	"github.com/menta2k/gui-locator/internal/server"
	"github.com/menta2k/gui-locator/internal/utils"
	"github.com/menta2k/gui-locator/pkg/client"
	"github.com/menta2k/gui-locator/pkg/llamacpp"
	"github.com/menta2k/gui-locator/pkg/ollama"
)

func main() {
	var configPath string
	var host string
	var port int
	var eager bool

	flag.StringVar(&configPath, "config", "", "config file path (default: "+config.GetConfigPath()+")")
	flag.StringVar(&host, "host", "", "override server host")
	flag.IntVar(&port, "port", 0, "override server port")
	flag.BoolVar(&eager, "eager", true, "initialize the model backend at startup instead of on first request")
	flag.Parse()

	cfg := config.Default()
	if configPath == "" && utils.FileExists(config.GetConfigPath()) {
		configPath = config.GetConfigPath()
	}
	if configPath != "" {
		loaded, err := config.LoadFromFile(configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	}
	if host != "" {
		cfg.Server.Host = host
	}
	if port != 0 {
		cfg.Server.Port = port
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	models := client.NewLifecycle(func() (client.Generator, error) {
		switch cfg.Generation.Backend {
		case "llamacpp":
			return llamacpp.NewClient(cfg.Generation.URL, cfg.Generation.Model, nil)
		default:
			return ollama.NewClient(cfg.Generation.URL, cfg.Generation.Model, nil)
		}
	})

	if eager {
		log.Printf("initializing %s backend for model %s ...", cfg.Generation.Backend, cfg.Generation.Model)
		if err := models.Init(); err != nil {
			// Non-fatal: the first request retries initialization.
			log.Printf("model initialization failed (will retry on first request): %v", err)
		} else {
			log.Printf("model backend ready")
		}
	}

	srv := server.New(cfg, models)
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("gui-locator server listening on http://%s", addr)
	log.Printf("health check: http://%s/health", addr)
	log.Printf("API endpoint: http://%s/api/process", addr)
	if err := srv.Router().Run(addr); err != nil {
		log.Fatal(err)
	}
}
