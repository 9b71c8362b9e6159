package cloner

import (
	"fmt"

	"anymarket-cloner/internal/anymarket"
)

// SkuAssignment is the new external identity for one SKU being created.
type SkuAssignment struct {
	PartnerID string
	EAN       string
}

// CloneOptions adjusts a plain clone for the destination account.
type CloneOptions struct {
	CategoryID   int64   // replace the category with a fixed destination id
	StockLocalID int64   // bind every SKU to this stock location
	PriceFactor  float64 // applied per SKU when StockLocalID is set; defaults to 1
}

// Clone copies a sanitized source product under new SKU identities. Exactly
// one assignment per source SKU is required; partner codes are unique per
// account, so reusing one code across a multi-SKU product is rejected
// instead of silently duplicated.
func Clone(src anymarket.Product, assignments []SkuAssignment, opts CloneOptions) (anymarket.Product, error) {
	product := Sanitize(src)

	if len(assignments) != len(product.Skus) {
		return anymarket.Product{}, fmt.Errorf(
			"source product has %d SKU(s) but %d new code(s) were given; one unique partner code per SKU is required",
			len(product.Skus), len(assignments))
	}

	for i := range product.Skus {
		sku := &product.Skus[i]
		sku.ID = 0
		sku.IDVariation = 0
		sku.PartnerID = assignments[i].PartnerID
		sku.EAN = assignments[i].EAN
		if opts.StockLocalID != 0 {
			sku.StockLocalID = opts.StockLocalID
			if opts.PriceFactor > 0 {
				sku.PriceFactor = opts.PriceFactor
			} else {
				sku.PriceFactor = 1
			}
		} else {
			sku.StockLocalID = 0
		}
	}

	if opts.CategoryID != 0 {
		product.Category = &anymarket.Category{ID: opts.CategoryID}
	}
	return product, nil
}

// KitComposition selects which composition contract a kit is built against.
type KitComposition int

const (
	// CompositionLegacy attaches a product-level kitItens reference by
	// partner code.
	CompositionLegacy KitComposition = iota
	// CompositionResolved attaches a per-SKU component with the resolved
	// internal id and stock location.
	CompositionResolved
)

// KitOptions describes the single constituent of a kit built from one
// component SKU.
type KitOptions struct {
	Component    string // component partner code
	ComponentID  int64  // resolved internal id, required for CompositionResolved
	StockLocalID int64  // location the component price was sourced from
	Price        float64
	Composition  KitComposition
}

// KitFromComponent rebuilds a sanitized source product as a KIT with a
// single new SKU composed of one component. The kit price is the resolved
// component price; a non-positive price falls back through the source SKU's
// price and sell price to a floor of 1.0.
func KitFromComponent(src anymarket.Product, assignment SkuAssignment, opts KitOptions) anymarket.Product {
	product := Sanitize(src)
	product.Type = anymarket.ProductKit
	product.HasVariations = false

	var srcSku anymarket.Sku
	if len(src.Skus) > 0 {
		srcSku = src.Skus[0]
	}
	price := pickPrice(opts.Price, srcSku.Price, srcSku.SellPrice)

	sku := anymarket.Sku{
		PartnerID: assignment.PartnerID,
		EAN:       assignment.EAN,
		Title:     product.Title + " - KIT",
		Active:    true,
		Amount:    0, // kit stock is derived from its components
		Price:     price,
		SellPrice: price,
	}

	switch opts.Composition {
	case CompositionResolved:
		component := anymarket.KitComponent{
			IDSku:           opts.ComponentID,
			StockLocalID:    opts.StockLocalID,
			Percentage:      100,
			Quantity:        1,
			IsMainComponent: true,
			Price:           price,
		}
		if component.IDSku == 0 {
			component.IDInClient = opts.Component
		}
		sku.Components = []anymarket.KitComponent{component}
	default:
		product.KitItems = []anymarket.KitItem{{Sku: opts.Component, Amount: 1}}
	}

	product.Skus = []anymarket.Sku{sku}
	return product
}

// VariationKitOptions describes a kit built from a variation product.
type VariationKitOptions struct {
	// Assignments supplies new codes by position. Positions past the end of
	// the list derive their code from BaseCode plus a letter suffix.
	Assignments  []SkuAssignment
	BaseCode     string
	StockLocalID int64
}

// KitFromVariations rebuilds a variation product as a KIT with one new SKU
// per source variation. Each new SKU keeps its variation attributes
// (flattened to the name-to-value shape the create API expects) and is
// composed of exactly its original SKU.
func KitFromVariations(src anymarket.Product, opts VariationKitOptions) (anymarket.Product, error) {
	if len(src.Skus) == 0 {
		return anymarket.Product{}, fmt.Errorf("source product %d has no SKUs to build a kit from", src.ID)
	}

	product := Sanitize(src)
	product.Type = anymarket.ProductKit
	product.HasVariations = true

	skus := make([]anymarket.Sku, 0, len(src.Skus))
	for i, srcSku := range src.Skus {
		var assignment SkuAssignment
		if i < len(opts.Assignments) {
			assignment = opts.Assignments[i]
		}
		if assignment.PartnerID == "" {
			if opts.BaseCode == "" {
				return anymarket.Product{}, fmt.Errorf(
					"no partner code for variation %d of %d and no base code to derive one", i+1, len(src.Skus))
			}
			assignment.PartnerID = opts.BaseCode + LetterSuffix(i)
		}
		if assignment.EAN == "" {
			assignment.EAN = srcSku.EAN
		}

		price := pickPrice(srcSku.Price, srcSku.SellPrice)
		skus = append(skus, anymarket.Sku{
			PartnerID:  assignment.PartnerID,
			EAN:        assignment.EAN,
			Title:      srcSku.Title,
			Active:     true,
			Amount:     0,
			Price:      price,
			SellPrice:  price,
			Variations: srcSku.Variations.Flatten(),
			Components: []anymarket.KitComponent{{
				IDSku:           srcSku.ID,
				StockLocalID:    opts.StockLocalID,
				Percentage:      100,
				Quantity:        1,
				IsMainComponent: true,
				Price:           price,
			}},
		})
	}

	product.Skus = skus
	return product, nil
}

// CloneVariations copies a variation product under new per-SKU identities,
// remapping each SKU's nested variation attributes into the flat mapping the
// create API expects.
func CloneVariations(src anymarket.Product, assignments []SkuAssignment) (anymarket.Product, error) {
	product, err := Clone(src, assignments, CloneOptions{})
	if err != nil {
		return anymarket.Product{}, err
	}
	product.HasVariations = true
	for i := range product.Skus {
		product.Skus[i].Variations = product.Skus[i].Variations.Flatten()
	}
	return product, nil
}

// LetterSuffix enumerates A, B, ... Z, AA, AB for derived partner codes.
func LetterSuffix(i int) string {
	suffix := ""
	for n := i + 1; n > 0; n /= 26 {
		n--
		suffix = string(rune('A'+n%26)) + suffix
	}
	return suffix
}
