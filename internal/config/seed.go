package config

import (
	"context"
	"log/slog"

	market "github.com/woysa/marketd/internal"
	"github.com/woysa/marketd/internal/storage"
)

// Seed inserts demo sellers on first run. It is a no-op when any
// sellers already exist.
func Seed(ctx context.Context, store storage.Store) error {
	existing, err := store.ListSellers(ctx, 0, 1)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		slog.Info("seed skipped, sellers already present")
		return nil
	}

	sellers := []*market.Seller{
		{
			Name:          "TechElectro Inc.",
			ContactPerson: "Alexey Smirnov",
			Email:         "alex@techelectro.example",
			Phone:         "+7-495-123-45-67",
			Address:       "Moscow, Elektronnaya st. 15",
			IsActive:      true,
		},
		{
			Name:          "HomeGoods Supply",
			ContactPerson: "Maria Petrova",
			Email:         "maria@homegoods.example",
			Phone:         "+7-812-987-65-43",
			Address:       "Saint Petersburg, Nevsky pr. 200",
			IsActive:      true,
		},
		{
			Name:          "FashionStyle Ltd.",
			ContactPerson: "Olga Ivanova",
			Email:         "olga@fashionstyle.example",
			Phone:         "+7-495-555-44-33",
			Address:       "Moscow, Modnaya st. 77",
			IsActive:      false,
		},
	}
	for _, s := range sellers {
		if err := store.CreateSeller(ctx, s); err != nil {
			return err
		}
		slog.Info("seeded seller", "name", s.Name)
	}
	return nil
}
