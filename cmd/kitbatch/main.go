package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"

	"anymarket-cloner/internal/anymarket"
	"anymarket-cloner/internal/batch"
	"anymarket-cloner/internal/cli"
	"anymarket-cloner/internal/cloner"
)

var requiredColumns = []string{"id_prod_hub", "novo_sku", "novo_ean", "sku_composicao"}

// kitbatch creates KIT products in bulk from a spreadsheet: one row per
// kit, priced from the composition SKU's stock entry at the configured
// location.
func main() {
	var (
		input     = flag.String("input", os.Getenv("PLANILHA_KITS"), "spreadsheet (.xlsx/.csv) with one kit per row")
		resultLog = flag.String("log", "kit_results.csv", "append-only outcome log")
		resolved  = flag.Bool("resolved", false, "use the resolved composition contract (internal SKU id per component)")
	)
	flag.Parse()

	cfg, logger := cli.Init()
	if err := cfg.Validate(); err != nil {
		logger.Fatal(err)
	}
	if *input == "" {
		logger.Fatal("an input spreadsheet is required (-input or PLANILHA_KITS)")
	}

	table, err := batch.ReadTable(*input)
	if err != nil {
		logger.Fatal(err)
	}
	if err := table.Require(requiredColumns...); err != nil {
		logger.Fatal(err)
	}

	results, err := batch.OpenResultLog(*resultLog)
	if err != nil {
		logger.Fatal(err)
	}
	defer results.Close()

	client := cli.NewClient(cfg, cfg.Token, logger)
	resolver := cloner.NewResolver(client, cfg.StockLocalID,
		cloner.ParseAggregationPolicy(cfg.Aggregation), logrus.NewEntry(logger))

	builder := &kitBuilder{
		client:   client,
		resolver: resolver,
		logger:   logger,
		resolved: *resolved,
		stockID:  cfg.StockLocalID,
	}

	driver := batch.NewDriver(cfg.RequestDelay, results, logrus.NewEntry(logger))
	summary, err := driver.Run(context.Background(), table, builder.processRow)
	if err != nil {
		logger.Fatal(err)
	}

	logger.WithFields(logrus.Fields{
		"succeeded": summary.Succeeded,
		"total":     summary.Total,
		"run":       results.RunID(),
	}).Info("kit batch finished")
}

type kitBuilder struct {
	client   *anymarket.Client
	resolver *cloner.Resolver
	logger   *logrus.Logger
	resolved bool
	stockID  int64
}

// processRow builds and submits one kit. Failures are reported as outcomes,
// never as aborts; the driver keeps the batch going.
func (b *kitBuilder) processRow(ctx context.Context, row batch.Row) batch.Outcome {
	outcome := batch.Outcome{ProductID: row["id_prod_hub"], NewSKU: row["novo_sku"]}

	id, err := strconv.ParseInt(row["id_prod_hub"], 10, 64)
	if err != nil {
		outcome.Status = batch.StatusError
		outcome.Message = fmt.Sprintf("invalid product id %q", row["id_prod_hub"])
		return outcome
	}
	component := row["sku_composicao"]
	if component == "" {
		outcome.Status = batch.StatusError
		outcome.Message = "empty composition SKU"
		return outcome
	}

	price, err := b.resolver.ComponentPrice(ctx, component)
	if err != nil {
		return b.failure(outcome, "resolve component price", err)
	}

	opts := cloner.KitOptions{
		Component:    component,
		StockLocalID: b.stockID,
		Price:        price,
	}
	if b.resolved {
		opts.Composition = cloner.CompositionResolved
		componentID, found, err := b.resolver.ResolveInternalID(ctx, component)
		if err != nil {
			return b.failure(outcome, "resolve component id", err)
		}
		if found {
			opts.ComponentID = componentID
		}
	}

	product, err := b.client.GetProduct(ctx, id)
	if err != nil {
		return b.failure(outcome, "fetch source product", err)
	}

	kit := cloner.KitFromComponent(*product, cloner.SkuAssignment{
		PartnerID: row["novo_sku"],
		EAN:       row["novo_ean"],
	}, opts)
	cli.Preview(b.logger, &kit)

	if _, err := b.client.CreateProduct(ctx, &kit); err != nil {
		return b.failure(outcome, "create kit", err)
	}

	outcome.Status = batch.StatusSuccess
	outcome.HTTPCode = 201
	outcome.Message = "created"
	return outcome
}

func (b *kitBuilder) failure(outcome batch.Outcome, stage string, err error) batch.Outcome {
	outcome.Status = batch.StatusError
	outcome.HTTPCode = anymarket.ErrorStatus(err)
	outcome.Message = fmt.Sprintf("%s: %v", stage, err)
	return outcome
}
