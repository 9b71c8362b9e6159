package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"anymarket-cloner/internal/anymarket"
	"anymarket-cloner/internal/batch"
	"anymarket-cloner/internal/cli"
	"anymarket-cloner/internal/cloner"
	"anymarket-cloner/internal/prompt"
)

// clonevariations copies a variation product under new per-SKU identities,
// either as another variation product or as a KIT with one component per
// variation. Assignments come from flags, a derived letter-suffix series,
// or an up-front interactive session.
func main() {
	var (
		productID = flag.Int64("id", 0, "source product id")
		newSkus   = flag.String("skus", "", "new partner codes, comma separated, one per variation")
		newEans   = flag.String("eans", "", "new EANs, comma separated, one per variation")
		baseCode  = flag.String("base", "", "base partner code; variations beyond the explicit list get letter suffixes (A, B, C...)")
		asKit     = flag.Bool("kit", false, "build a KIT linking each new SKU to its source variation")
	)
	flag.Parse()

	cfg, logger := cli.Init()
	if err := cfg.Validate(); err != nil {
		logger.Fatal(err)
	}
	if *productID == 0 {
		logger.Fatal("a source product id is required (-id)")
	}

	client := cli.NewClient(cfg, cfg.Token, logger)
	ctx := context.Background()

	product, err := client.GetProduct(ctx, *productID)
	if err != nil {
		logger.Fatal(err)
	}
	if len(product.Skus) == 0 {
		logger.Fatalf("product %d has no SKUs to remap", *productID)
	}

	assignments := zipAssignments(batch.SplitMulti(*newSkus), batch.SplitMulti(*newEans))

	// No explicit codes and no base to derive from: collect interactively,
	// all of it before the create call.
	if len(assignments) == 0 && *baseCode == "" {
		fmt.Println("=== AnyMarket variation cloner ===")
		assignments, err = prompt.New(os.Stdin, os.Stdout).CollectAssignments(product.Skus)
		if err != nil {
			logger.Fatal(err)
		}
	}

	var clone anymarket.Product
	if *asKit {
		clone, err = cloner.KitFromVariations(*product, cloner.VariationKitOptions{
			Assignments:  assignments,
			BaseCode:     *baseCode,
			StockLocalID: cfg.StockLocalID,
		})
	} else {
		if len(assignments) == 0 {
			assignments = derivedAssignments(*baseCode, product.Skus)
		}
		clone, err = cloner.CloneVariations(*product, assignments)
	}
	if err != nil {
		logger.Fatal(err)
	}

	cli.Preview(logger, &clone)
	if _, err := client.CreateProduct(ctx, &clone); err != nil {
		logger.Fatal(err)
	}

	logger.WithFields(logrus.Fields{
		"source":     *productID,
		"variations": len(clone.Skus),
		"kit":        *asKit,
	}).Info("variation product cloned")
}

// derivedAssignments produces one letter-suffixed code per source SKU from
// the base code, keeping each SKU's original EAN.
func derivedAssignments(baseCode string, skus []anymarket.Sku) []cloner.SkuAssignment {
	assignments := make([]cloner.SkuAssignment, len(skus))
	for i, sku := range skus {
		assignments[i] = cloner.SkuAssignment{
			PartnerID: baseCode + cloner.LetterSuffix(i),
			EAN:       sku.EAN,
		}
	}
	return assignments
}

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
