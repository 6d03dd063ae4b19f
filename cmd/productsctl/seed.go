package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"products-api/internal/models"
	"products-api/internal/repositories"
	"products-api/pkg/server"
)

// seedFile is the YAML layout accepted by the seed command
type seedFile struct {
	Products []seedProduct `yaml:"products"`
}

type seedProduct struct {
	ID    string  `yaml:"id"`
	Name  string  `yaml:"name"`
	Price float64 `yaml:"price"`
}

func newSeedCmd(load configLoader) *cobra.Command {
	var (
		file       string
		maxElapsed time.Duration
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load products from a YAML file into the configured store",
		Long: `Seed writes every product in the file to the configured store.

Products with an id are written in place; products without one get a new id.

Example file:
    products:
      - id: widget-1
        name: Widget
        price: 9.99
      - name: Gadget
        price: 24.5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := load()
			if err != nil {
				return err
			}

			products, err := loadSeedFile(file)
			if err != nil {
				return err
			}

			container, err := server.NewContainer(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer container.Close()

			n, err := seedProducts(cmd.Context(), container.ProductRepo, products, maxElapsed, logger)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d products\n", n)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "products.yaml", "YAML file with the products to load")
	cmd.Flags().DurationVar(&maxElapsed, "max-retry", 30*time.Second, "Give up on a product after retrying for this long")
	return cmd
}

// loadSeedFile parses and validates a seed file
func loadSeedFile(path string) ([]*models.Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}

	products := make([]*models.Product, 0, len(seed.Products))
	for i, p := range seed.Products {
		product := &models.Product{ID: p.ID, Name: p.Name, Price: p.Price}
		product.Normalize()
		if product.Name == "" {
			return nil, fmt.Errorf("product %d in %s has no name", i+1, path)
		}
		if product.Price < 0 {
			return nil, fmt.Errorf("product %q in %s has a negative price", product.Name, path)
		}
		products = append(products, product)
	}
	return products, nil
}

// seedProducts writes the products, retrying store failures with exponential backoff
func seedProducts(ctx context.Context, repo repositories.ProductRepository, products []*models.Product, maxElapsed time.Duration, logger *logrus.Logger) (int, error) {
	for i, product := range products {
		operation := func() (string, error) {
			var err error
			id := product.ID
			if id != "" {
				err = repo.Put(ctx, product)
			} else {
				id, err = repo.Create(ctx, product)
			}

			if err != nil && !repositories.IsStore(err) {
				return "", backoff.Permanent(err)
			}
			if err != nil {
				logger.WithError(err).WithField("name", product.Name).Warn("Seeding product failed, retrying")
			}
			return id, err
		}

		id, err := backoff.Retry(ctx, operation,
			backoff.WithBackOff(backoff.NewExponentialBackOff()),
			backoff.WithMaxElapsedTime(maxElapsed),
		)
		if err != nil {
			return i, fmt.Errorf("failed to seed product %q: %w", product.Name, err)
		}

		logger.WithFields(logrus.Fields{
			"product_id": id,
			"name":       product.Name,
		}).Debug("Product seeded")
	}
	return len(products), nil
}
