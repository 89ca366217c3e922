package main

import (
	"flag"
	"log"
	"net/http"

	"github.com/joho/godotenv"

	"incidentassist/internal/app"
	"incidentassist/internal/config"
	"incidentassist/internal/server"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional)")
	flag.Parse()

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	svc, err := app.Build(cfg)
	if err != nil {
		log.Fatalf("failed to assemble service: %v", err)
	}

	log.Printf("listening on %s", cfg.Server.Addr)
	if err := http.ListenAndServe(cfg.Server.Addr, server.New(svc)); err != nil {
		log.Fatal(err)
	}
}
