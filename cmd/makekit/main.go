package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"

	"anymarket-cloner/internal/cli"
	"anymarket-cloner/internal/cloner"
	"anymarket-cloner/internal/prompt"
)

// makekit rebuilds an existing product as a single-SKU KIT composed of one
// component SKU, pricing the kit from the component's stock entry at the
// configured location.
func main() {
	var (
		productID = flag.Int64("id", 0, "source product id")
		newSku    = flag.String("sku", "", "new kit partner code")
		newEan    = flag.String("ean", "", "new kit EAN")
		component = flag.String("component", "", "partner code of the component SKU")
		price     = flag.Float64("price", 0, "kit price (0 looks it up from the component's stock entry)")
		resolved  = flag.Bool("resolved", false, "use the resolved composition contract (internal SKU id per component)")
	)
	flag.Parse()

	cfg, logger := cli.Init()
	if err := cfg.Validate(); err != nil {
		logger.Fatal(err)
	}

	client := cli.NewClient(cfg, cfg.Token, logger)
	ctx := context.Background()

	id, sku, ean, comp := *productID, *newSku, *newEan, *component
	if id == 0 {
		var err error
		if id, sku, ean, comp, err = interactiveArgs(); err != nil {
			logger.Fatal(err)
		}
	}
	if comp == "" {
		logger.Fatal("a component SKU is required")
	}

	resolver := cloner.NewResolver(client, cfg.StockLocalID,
		cloner.ParseAggregationPolicy(cfg.Aggregation), logrus.NewEntry(logger))

	opts := cloner.KitOptions{
		Component:    comp,
		StockLocalID: cfg.StockLocalID,
		Price:        *price,
	}

	if opts.Price == 0 {
		componentPrice, err := resolver.ComponentPrice(ctx, comp)
		if err != nil {
			logger.Fatal(err)
		}
		opts.Price = componentPrice
		logger.WithFields(logrus.Fields{
			"component":    comp,
			"price":        componentPrice,
			"stockLocalId": cfg.StockLocalID,
		}).Info("component price resolved")
	}

	if *resolved {
		opts.Composition = cloner.CompositionResolved
		componentID, found, err := resolver.ResolveInternalID(ctx, comp)
		if err != nil {
			logger.Fatal(err)
		}
		if found {
			opts.ComponentID = componentID
		} else {
			logger.WithField("component", comp).Warn("component not found in catalog, sending partner code reference")
		}
	}

	product, err := client.GetProduct(ctx, id)
	if err != nil {
		logger.Fatal(err)
	}

	kit := cloner.KitFromComponent(*product, cloner.SkuAssignment{PartnerID: sku, EAN: ean}, opts)
	cli.Preview(logger, &kit)

	if _, err := client.CreateProduct(ctx, &kit); err != nil {
		logger.Fatal(err)
	}
	logger.WithFields(logrus.Fields{"sku": sku, "source": id}).Info("kit created")
}

func interactiveArgs() (int64, string, string, string, error) {
	p := prompt.New(os.Stdin, os.Stdout)
	fmt.Println("=== AnyMarket kit builder ===")

	idText, err := p.ReadLine("Source product id")
	if err != nil {
		return 0, "", "", "", err
	}
	id, err := strconv.ParseInt(idText, 10, 64)
	if err != nil {
		return 0, "", "", "", fmt.Errorf("invalid product id %q", idText)
	}

	sku, err := p.ReadLine("New kit SKU")
	if err != nil {
		return 0, "", "", "", err
	}
	ean, err := p.ReadLine("New kit EAN")
	if err != nil {
		return 0, "", "", "", err
	}
	component, err := p.ReadLine("Component SKU")
	if err != nil {
		return 0, "", "", "", err
	}
	return id, sku, ean, component, nil
}
