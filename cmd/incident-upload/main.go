package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"incidentassist/internal/app"
	"incidentassist/internal/config"
)

func main() {
	_ = godotenv.Load()

	var cfgPath, incidentsJSON string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional)")
	flag.StringVar(&incidentsJSON, "incidents", "", "Path to incidents JSON file to upload")
	flag.Parse()
	solutionDocs := flag.Args()

	if incidentsJSON == "" && len(solutionDocs) == 0 {
		fmt.Println("Usage: incident-upload [--config=config.yaml] [--incidents=incidents.json] [guide1.txt guide2.md ...]")
		os.Exit(1)
	}

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

	if incidentsJSON != "" {
		n, err := svc.IngestIncidents(incidentsJSON)
		if err != nil {
			log.Fatalf("incident upload failed after %d records: %v", n, err)
		}
		log.Printf("uploaded %d incidents", n)
	}
	if len(solutionDocs) > 0 {
		n, err := svc.IngestSolutionDocs(solutionDocs)
		if err != nil {
			log.Fatalf("solution upload failed after %d chunks: %v", n, err)
		}
		log.Printf("uploaded %d solution chunks", n)
	}
}
