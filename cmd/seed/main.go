// Command seed populates a database with random suppliers, inventories and
// professionals for local development.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"

	"quoteserver/database"
)

// catalog holds plausible product names per category, so the matching engine
// has something realistic to chew on.
var catalog = map[string][]string{
	"toxina": {
		"Botox 100UI", "Botulift 100 UI", "Botulift 200 UI",
		"Dysport 300U", "Xeomin 100U", "Nabota 100UI",
	},
	"preenchedor": {
		"Juvederm Ultra XC 1ml", "Juvederm Voluma 1ml", "Belotero Balance 1ml",
		"Restylane Kysse 1ml", "Perfectha Deep 1ml", "Stylage M 1ml",
	},
	"bioestimulador": {
		"Sculptra 2 frascos", "Radiesse 1.5ml", "Ellanse M", "AestheFill 200mg",
	},
	"fio": {
		"Fio PDO Mono 29G", "Fio PDO Espiculado 19G", "Fio de Sustentação Silhouette",
	},
}

func main() {
	dbPath := flag.String("db", "quotes.db", "database path")
	suppliers := flag.Int("suppliers", 10, "suppliers to create")
	professionals := flag.Int("professionals", 20, "professionals to create")
	seed := flag.Int64("seed", 0, "random seed")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	gofakeit.Seed(*seed)

	store, err := database.NewStore(*dbPath, logger)
	if err != nil {
		logger.Error("failed to open database", "path", *dbPath, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	ctx := context.Background()

	for i := 0; i < *suppliers; i++ {
		supplier, err := store.CreateSupplier(ctx, database.Supplier{
			Name:  fmt.Sprintf("Distribuidora %s", gofakeit.LastName()),
			Phone: gofakeit.Numerify("55###########"),
			CEP:   gofakeit.Numerify("#####-###"),
		})
		if err != nil {
			logger.Error("failed to create supplier", "error", err)
			os.Exit(1)
		}

		products := 0
		for category, names := range catalog {
			for _, name := range names {
				// Each supplier stocks a random subset.
				if gofakeit.Bool() {
					continue
				}
				_, err := store.AddProduct(ctx, supplier.ID, database.Product{
					Category: category,
					Brand:    gofakeit.RandomString([]string{"Allergan", "Galderma", "Merz", "Rennova"}),
					Name:     name,
					Price:    decimal.NewFromInt(int64(gofakeit.Number(300, 3000))),
					Quantity: gofakeit.Number(0, 30),
				})
				if err != nil {
					logger.Error("failed to add product", "name", name, "error", err)
					os.Exit(1)
				}
				products++
			}
		}
		logger.Info("supplier seeded", "name", supplier.Name, "products", products)
	}

	for i := 0; i < *professionals; i++ {
		_, err := store.UpsertProfessional(ctx, database.Professional{
			Name:  gofakeit.Name(),
			Email: gofakeit.Email(),
			Phone: gofakeit.Numerify("55###########"),
			CEP:   gofakeit.Numerify("#####-###"),
		})
		if err != nil {
			logger.Error("failed to create professional", "error", err)
			os.Exit(1)
		}
	}

	logger.Info("seed finished", "suppliers", *suppliers, "professionals", *professionals)
}
