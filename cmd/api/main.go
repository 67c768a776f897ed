package main

import (
	"flag"
	"log"
	"time"

	"github.com/hydrolog-io/hydrolog/internal/api"
	"github.com/hydrolog-io/hydrolog/internal/auth"
	"github.com/hydrolog-io/hydrolog/internal/config"
	"github.com/hydrolog-io/hydrolog/internal/database"
	"github.com/hydrolog-io/hydrolog/internal/storage"
	"github.com/hydrolog-io/hydrolog/internal/water"
)

const version = "0.1.0"

func initializeAPI(configPath string) (*api.Api, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	if err := database.Init(cfg); err != nil {
		return nil, err
	}

	tokens := auth.NewTokenManager(cfg.Auth.Secret, time.Duration(cfg.Auth.TokenLifetimeHours)*time.Hour)
	ledger := water.NewEngine(database.NewRecordStore())

	var uploader api.Uploader
	if cfg.Storage.Enabled {
		client, err := storage.NewClient(cfg.Storage.Endpoint, cfg.Storage.Region, cfg.Storage.Bucket, cfg.Storage.AccessKey, cfg.Storage.SecretKey)
		if err != nil {
			return nil, err
		}
		uploader = client
	}

	return api.NewApi(*cfg, tokens, ledger, uploader)
}

func main() {
	configPath := flag.String("config", "app.yml", "Path to configuration file")
	flag.Parse()

	log.Printf("Starting hydrolog API v%s with config: %s", version, *configPath)

	apiServer, err := initializeAPI(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	defer database.Close()

	log.Fatal(apiServer.Serve())
}
