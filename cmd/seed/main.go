package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dudustore/cepstore/backend/internal/adapters/database"
	"github.com/dudustore/cepstore/backend/internal/domain/entities"
	"github.com/dudustore/cepstore/backend/internal/domain/repositories"
	"github.com/dudustore/cepstore/backend/internal/infrastructure/clients/postgres"
	"github.com/dudustore/cepstore/backend/internal/infrastructure/observability"
	"github.com/dudustore/cepstore/backend/pkg/config"
)

type capital struct {
	Name       string
	City       string
	State      string
	PostalCode string
	Lat        float64
	Lng        float64
}

var capitals = []capital{
	{Name: "Dudu Store - AC", City: "Rio Branco", State: "AC", PostalCode: "69900000", Lat: -9.97472, Lng: -67.81},
	{Name: "Dudu Store - AL", City: "Maceió", State: "AL", PostalCode: "57010000", Lat: -9.647684, Lng: -35.733926},
	{Name: "Dudu Store - PE", City: "Recife", State: "PE", PostalCode: "50010000", Lat: -8.05225, Lng: -34.92861},
	{Name: "Dudu Store - BA", City: "Salvador", State: "BA", PostalCode: "40010000", Lat: -12.9777, Lng: -38.5016},
	{Name: "Dudu Store - DF", City: "Brasília", State: "DF", PostalCode: "70040000", Lat: -15.7939, Lng: -47.8828},
	{Name: "Dudu Store - MG", City: "Belo Horizonte", State: "MG", PostalCode: "30110000", Lat: -19.9167, Lng: -43.9345},
	{Name: "Dudu Store - RJ", City: "Rio de Janeiro", State: "RJ", PostalCode: "20010000", Lat: -22.9068, Lng: -43.1729},
	{Name: "Dudu Store - SP", City: "São Paulo", State: "SP", PostalCode: "01001000", Lat: -23.5505, Lng: -46.6333},
	{Name: "Dudu Store - PR", City: "Curitiba", State: "PR", PostalCode: "80010000", Lat: -25.4284, Lng: -49.2733},
	{Name: "Dudu Store - RS", City: "Porto Alegre", State: "RS", PostalCode: "90010000", Lat: -30.0346, Lng: -51.2177},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	observability.InitLogger("cep-store-seed", cfg.App.Env, cfg.App.LogLevel)

	ctx := context.Background()

	pgClient, err := postgres.NewClient(ctx, &cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to DB")
	}
	defer pgClient.Close()

	storeRepo := database.NewStoreAdapter(pgClient)
	if err := storeRepo.EnsureSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to prepare stores schema")
	}

	if os.Getenv("RESET_DB") == "true" {
		log.Warn().Msg("RESET_DB=true detected, truncating stores before seeding")
		if _, err := pgClient.DB().ExecContext(ctx, "TRUNCATE TABLE stores"); err != nil {
			log.Fatal().Err(err).Msg("Failed to truncate stores")
		}
	}

	created, err := seedStores(ctx, storeRepo, capitals)
	if err != nil {
		log.Fatal().Err(err).Msg("Seeding failed")
	}
	log.Info().Int("created", created).Int("capitals", len(capitals)).Msg("Seeding completed")
}

// seedStores inserts one store per capital, skipping states that already have one
func seedStores(ctx context.Context, repo repositories.StoreRepository, list []capital) (int, error) {
	created := 0
	for _, c := range list {
		existing, err := repo.ListByState(ctx, c.State)
		if err != nil {
			return created, fmt.Errorf("failed to check state %s: %w", c.State, err)
		}
		if len(existing) > 0 {
			log.Debug().Str("state", c.State).Msg("State already has a store, skipping")
			continue
		}

		store := &entities.Store{
			ID:                   uuid.NewString(),
			Name:                 c.Name,
			City:                 c.City,
			State:                c.State,
			Country:              "BR",
			PostalCode:           c.PostalCode,
			Location:             entities.Location{Latitude: c.Lat, Longitude: c.Lng},
			LocalFulfillmentDays: 1,
		}
		if err := store.Validate(); err != nil {
			return created, err
		}
		if err := repo.Create(ctx, store); err != nil {
			return created, fmt.Errorf("failed to create store for %s: %w", c.State, err)
		}
		log.Info().Str("state", c.State).Str("id", store.ID).Msg("Created store")
		created++
	}
	return created, nil
}
