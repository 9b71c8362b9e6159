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
	"anymarket-cloner/internal/config"
	"anymarket-cloner/internal/prompt"
)

// clonesku copies a product into a new SKU/EAN identity, optionally across
// accounts and optionally for a whole spreadsheet of products.
func main() {
	var (
		productID  = flag.Int64("id", 0, "source product id")
		newSkus    = flag.String("sku", "", "new partner code(s), comma separated, one per source SKU")
		newEans    = flag.String("ean", "", "new EAN(s), comma separated, one per source SKU")
		categoryID = flag.Int64("category", 0, "destination category id (0 keeps the source category)")
		stockLocal = flag.Int64("stock-local", 0, "bind cloned SKUs to this stock location id")
		input      = flag.String("input", "", "spreadsheet (.xlsx/.csv) for batch cloning")
		resultLog  = flag.String("log", "clone_results.csv", "append-only outcome log for batch runs")
	)
	flag.Parse()

	cfg, logger := cli.Init()
	if err := cfg.Validate(); err != nil {
		logger.Fatal(err)
	}

	source := cli.NewClient(cfg, cfg.Token, logger)
	dest := source
	if cfg.DestToken != cfg.Token {
		dest = cli.NewClient(cfg, cfg.DestToken, logger)
	}

	opts := cloner.CloneOptions{
		CategoryID:   *categoryID,
		StockLocalID: *stockLocal,
	}
	if opts.CategoryID == 0 {
		opts.CategoryID = cfg.DefaultCategoryID
	}

	ctx := context.Background()

	if *input != "" {
		runBatch(ctx, cfg, logger, source, dest, opts, *input, *resultLog)
		return
	}

	id, assignments, err := singleRunArgs(*productID, *newSkus, *newEans)
	if err != nil {
		logger.Fatal(err)
	}

	if err := cloneOne(ctx, logger, source, dest, id, assignments, opts); err != nil {
		logger.Fatal(err)
	}
}

// singleRunArgs resolves the clone target from flags, falling back to an
// interactive prompt when no product id was given.
func singleRunArgs(productID int64, skus, eans string) (int64, []cloner.SkuAssignment, error) {
	if productID == 0 {
		p := prompt.New(os.Stdin, os.Stdout)
		fmt.Println("=== AnyMarket product cloner ===")
		idText, err := p.ReadLine("Source product id")
		if err != nil {
			return 0, nil, err
		}
		productID, err = strconv.ParseInt(idText, 10, 64)
		if err != nil {
			return 0, nil, fmt.Errorf("invalid product id %q", idText)
		}
		if skus, err = p.ReadLine("New SKU(s)"); err != nil {
			return 0, nil, err
		}
		if eans, err = p.ReadLine("New EAN(s)"); err != nil {
			return 0, nil, err
		}
	}

	assignments := zipAssignments(batch.SplitMulti(skus), batch.SplitMulti(eans))
	if len(assignments) == 0 {
		return 0, nil, fmt.Errorf("at least one new SKU is required")
	}
	return productID, assignments, nil
}

func cloneOne(ctx context.Context, logger *logrus.Logger, source, dest *anymarket.Client, id int64, assignments []cloner.SkuAssignment, opts cloner.CloneOptions) error {
	product, err := source.GetProduct(ctx, id)
	if err != nil {
		return fmt.Errorf("fetch source product: %w", err)
	}

	clone, err := cloner.Clone(*product, assignments, opts)
	if err != nil {
		return err
	}

	cli.Preview(logger, &clone)
	if _, err := dest.CreateProduct(ctx, &clone); err != nil {
		return fmt.Errorf("create clone: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"source": id,
		"sku":    assignments[0].PartnerID,
	}).Info("product cloned")
	return nil
}

func runBatch(ctx context.Context, cfg *config.Config, logger *logrus.Logger, source, dest *anymarket.Client, opts cloner.CloneOptions, input, logPath string) {
	table, err := batch.ReadTable(input)
	if err != nil {
		logger.Fatal(err)
	}
	if err := table.Require("id_prod_hub", "novo_sku", "novo_ean"); err != nil {
		logger.Fatal(err)
	}

	results, err := batch.OpenResultLog(logPath)
	if err != nil {
		logger.Fatal(err)
	}
	defer results.Close()

	driver := batch.NewDriver(cfg.RequestDelay, results, logrus.NewEntry(logger))
	summary, err := driver.Run(ctx, table, func(ctx context.Context, row batch.Row) batch.Outcome {
		return cloneRow(ctx, logger, source, dest, opts, row)
	})
	if err != nil {
		logger.Fatal(err)
	}

	logger.WithFields(logrus.Fields{
		"succeeded": summary.Succeeded,
		"total":     summary.Total,
		"run":       results.RunID(),
	}).Info("batch finished")
}

func cloneRow(ctx context.Context, logger *logrus.Logger, source, dest *anymarket.Client, opts cloner.CloneOptions, row batch.Row) batch.Outcome {
	outcome := batch.Outcome{ProductID: row["id_prod_hub"], NewSKU: row["novo_sku"]}

	id, err := strconv.ParseInt(row["id_prod_hub"], 10, 64)
	if err != nil {
		outcome.Status = batch.StatusError
		outcome.Message = fmt.Sprintf("invalid product id %q", row["id_prod_hub"])
		return outcome
	}

	assignments := zipAssignments(batch.SplitMulti(row["novo_sku"]), batch.SplitMulti(row["novo_ean"]))
	if err := cloneOne(ctx, logger, source, dest, id, assignments, opts); err != nil {
		outcome.Status = batch.StatusError
		outcome.HTTPCode = anymarket.ErrorStatus(err)
		outcome.Message = err.Error()
		return outcome
	}

	outcome.Status = batch.StatusSuccess
	outcome.HTTPCode = 201
	outcome.Message = "created"
	return outcome
}

// zipAssignments pairs new partner codes with EANs by position. Missing
// EANs stay empty rather than shifting positions.
func zipAssignments(skus, eans []string) []cloner.SkuAssignment {
	assignments := make([]cloner.SkuAssignment, 0, len(skus))
	for i, sku := range skus {
		a := cloner.SkuAssignment{PartnerID: sku}
		if i < len(eans) {
			a.EAN = eans[i]
		}
		assignments = append(assignments, a)
	}
	return assignments
}
