package cloner

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anymarket-cloner/internal/anymarket"
)

func variationProduct(t *testing.T) anymarket.Product {
	t.Helper()
	payload := `{
		"id": 500,
		"title": "Camiseta",
		"type": "VARIATION",
		"hasVariations": true,
		"skus": [
			{"id": 1, "idVariation": 11, "partnerId": "CAM-P", "ean": "111", "price": 30,
			 "variations": [{"type": {"id": 1, "name": "Tamanho"}, "description": "P"}]},
			{"id": 2, "idVariation": 12, "partnerId": "CAM-M", "ean": "222", "price": 30,
			 "variations": [{"type": {"id": 1, "name": "Tamanho"}, "description": "M"}]},
			{"id": 3, "idVariation": 13, "partnerId": "CAM-G", "ean": "333", "price": 30,
			 "variations": [{"type": {"id": 1, "name": "Tamanho"}, "description": "G"}]}
		]
	}`
	var product anymarket.Product
	require.NoError(t, json.Unmarshal([]byte(payload), &product))
	return product
}

func TestCloneRewritesSkuIdentity(t *testing.T) {
	src := fetchedProduct()

	clone, err := Clone(src, []SkuAssignment{{PartnerID: "NEW-1", EAN: "0001"}}, CloneOptions{})

	require.NoError(t, err)
	require.Len(t, clone.Skus, 1)
	assert.Equal(t, "NEW-1", clone.Skus[0].PartnerID)
	assert.Equal(t, "0001", clone.Skus[0].EAN)
	assert.Zero(t, clone.Skus[0].ID)
	assert.Zero(t, clone.ID)
}

func TestCloneRequiresOneCodePerSku(t *testing.T) {
	src := variationProduct(t)

	_, err := Clone(src, []SkuAssignment{{PartnerID: "ONLY-ONE"}}, CloneOptions{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "one unique partner code per SKU")
}

func TestCloneDestinationOverrides(t *testing.T) {
	src := fetchedProduct()

	clone, err := Clone(src, []SkuAssignment{{PartnerID: "NEW-1"}}, CloneOptions{
		CategoryID:   3598455,
		StockLocalID: 45479,
	})

	require.NoError(t, err)
	require.NotNil(t, clone.Category)
	assert.Equal(t, int64(3598455), clone.Category.ID)
	assert.Equal(t, int64(45479), clone.Skus[0].StockLocalID)
	assert.Equal(t, 1.0, clone.Skus[0].PriceFactor)
}

func TestKitFromComponentShape(t *testing.T) {
	src := fetchedProduct()

	kit := KitFromComponent(src, SkuAssignment{PartnerID: "KIT-1", EAN: "999"}, KitOptions{
		Component: "COMP-1",
		Price:     25.0,
	})

	assert.Equal(t, anymarket.ProductKit, kit.Type)
	assert.False(t, kit.HasVariations)
	require.Len(t, kit.Skus, 1)

	sku := kit.Skus[0]
	assert.Equal(t, "KIT-1", sku.PartnerID)
	assert.Equal(t, "Caneca Térmica - KIT", sku.Title)
	assert.Zero(t, sku.Amount, "kit stock is derived from components")
	assert.True(t, sku.Active)
	assert.Equal(t, 25.0, sku.Price)
	assert.Equal(t, 25.0, sku.SellPrice)

	require.Len(t, kit.KitItems, 1)
	assert.Equal(t, anymarket.KitItem{Sku: "COMP-1", Amount: 1}, kit.KitItems[0])
	assert.Empty(t, sku.Components)
}

func TestKitFromComponentResolvedContract(t *testing.T) {
	src := fetchedProduct()

	kit := KitFromComponent(src, SkuAssignment{PartnerID: "KIT-1"}, KitOptions{
		Component:    "COMP-1",
		ComponentID:  4242,
		StockLocalID: 45479,
		Price:        30.0,
		Composition:  CompositionResolved,
	})

	assert.Empty(t, kit.KitItems)
	require.Len(t, kit.Skus, 1)
	require.Len(t, kit.Skus[0].Components, 1)

	component := kit.Skus[0].Components[0]
	assert.Equal(t, int64(4242), component.IDSku)
	assert.Empty(t, component.IDInClient)
	assert.Equal(t, int64(45479), component.StockLocalID)
	assert.Equal(t, 100.0, component.Percentage)
	assert.Equal(t, 1, component.Quantity)
	assert.True(t, component.IsMainComponent)
	assert.Equal(t, 30.0, component.Price)
}

func TestKitFromComponentUnresolvedFallsBackToPartnerCode(t *testing.T) {
	kit := KitFromComponent(fetchedProduct(), SkuAssignment{PartnerID: "KIT-1"}, KitOptions{
		Component:   "COMP-1",
		Price:       10,
		Composition: CompositionResolved,
	})

	component := kit.Skus[0].Components[0]
	assert.Zero(t, component.IDSku)
	assert.Equal(t, "COMP-1", component.IDInClient)
}

func TestKitFromComponentPriceFloor(t *testing.T) {
	src := fetchedProduct()
	src.Skus[0].Price = 0
	src.Skus[0].SellPrice = 0

	kit := KitFromComponent(src, SkuAssignment{PartnerID: "KIT-1"}, KitOptions{Component: "C", Price: 0})

	assert.Equal(t, 1.0, kit.Skus[0].Price)
	assert.Equal(t, 1.0, kit.Skus[0].SellPrice)
}

func TestKitFromComponentPricePreferenceOrder(t *testing.T) {
	src := fetchedProduct()
	src.Skus[0].Price = 40.0
	src.Skus[0].SellPrice = 35.0

	// resolved cost wins over source prices
	kit := KitFromComponent(src, SkuAssignment{PartnerID: "K"}, KitOptions{Component: "C", Price: 22.0})
	assert.Equal(t, 22.0, kit.Skus[0].Price)

	// without a resolved cost, price beats sell price
	kit = KitFromComponent(src, SkuAssignment{PartnerID: "K"}, KitOptions{Component: "C"})
	assert.Equal(t, 40.0, kit.Skus[0].Price)
}

func TestKitFromVariationsLetterSuffixes(t *testing.T) {
	src := variationProduct(t)

	kit, err := KitFromVariations(src, VariationKitOptions{BaseCode: "ABC", StockLocalID: 45479})

	require.NoError(t, err)
	require.Len(t, kit.Skus, 3)
	assert.Equal(t, "ABCA", kit.Skus[0].PartnerID)
	assert.Equal(t, "ABCB", kit.Skus[1].PartnerID)
	assert.Equal(t, "ABCC", kit.Skus[2].PartnerID)
}

func TestKitFromVariationsExplicitListBeforeSuffixes(t *testing.T) {
	src := variationProduct(t)

	kit, err := KitFromVariations(src, VariationKitOptions{
		Assignments: []SkuAssignment{{PartnerID: "FIRST", EAN: "987"}},
		BaseCode:    "ABC",
	})

	require.NoError(t, err)
	assert.Equal(t, "FIRST", kit.Skus[0].PartnerID)
	assert.Equal(t, "987", kit.Skus[0].EAN)
	assert.Equal(t, "ABCB", kit.Skus[1].PartnerID)
	assert.Equal(t, "ABCC", kit.Skus[2].PartnerID)
}

func TestKitFromVariationsLinksEachSkuToItsSource(t *testing.T) {
	src := variationProduct(t)

	kit, err := KitFromVariations(src, VariationKitOptions{BaseCode: "ABC", StockLocalID: 45479})

	require.NoError(t, err)
	assert.Equal(t, anymarket.ProductKit, kit.Type)
	assert.True(t, kit.HasVariations)

	for i, sku := range kit.Skus {
		require.Len(t, sku.Components, 1, "sku %d", i)
		component := sku.Components[0]
		assert.Equal(t, src.Skus[i].ID, component.IDSku)
		assert.Equal(t, int64(45479), component.StockLocalID)
		assert.Equal(t, 100.0, component.Percentage)
		assert.Equal(t, 1, component.Quantity)
		assert.True(t, component.IsMainComponent)
	}
}

func TestKitFromVariationsFlattensVariationAttributes(t *testing.T) {
	src := variationProduct(t)

	kit, err := KitFromVariations(src, VariationKitOptions{BaseCode: "ABC"})

	require.NoError(t, err)
	data, err := json.Marshal(kit.Skus[1])
	require.NoError(t, err)

	var marshaled struct {
		Variations map[string]string `json:"variations"`
	}
	require.NoError(t, json.Unmarshal(data, &marshaled))
	assert.Equal(t, map[string]string{"Tamanho": "M"}, marshaled.Variations)
}

func TestKitFromVariationsNoBaseNoAssignments(t *testing.T) {
	_, err := KitFromVariations(variationProduct(t), VariationKitOptions{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no base code")
}

func TestKitFromVariationsEmptyProduct(t *testing.T) {
	_, err := KitFromVariations(anymarket.Product{ID: 1}, VariationKitOptions{BaseCode: "X"})

	require.Error(t, err)
}

func TestCloneVariations(t *testing.T) {
	src := variationProduct(t)

	clone, err := CloneVariations(src, []SkuAssignment{
		{PartnerID: "NEW-P", EAN: "1"},
		{PartnerID: "NEW-M", EAN: "2"},
		{PartnerID: "NEW-G", EAN: "3"},
	})

	require.NoError(t, err)
	assert.True(t, clone.HasVariations)
	require.Len(t, clone.Skus, 3)
	for i, sku := range clone.Skus {
		assert.Zero(t, sku.ID, "sku %d keeps no catalog identity", i)
		assert.Zero(t, sku.IDVariation)
		assert.Zero(t, sku.StockLocalID)
	}
	assert.Equal(t, "NEW-M", clone.Skus[1].PartnerID)
	assert.Equal(t, map[string]string{"Tamanho": "M"}, clone.Skus[1].Variations.Values())
}

func TestLetterSuffixSeries(t *testing.T) {
	assert.Equal(t, "A", LetterSuffix(0))
	assert.Equal(t, "Z", LetterSuffix(25))
	assert.Equal(t, "AA", LetterSuffix(26))
	assert.Equal(t, "AB", LetterSuffix(27))
}

func TestPickPrice(t *testing.T) {
	assert.Equal(t, 5.0, pickPrice(5.0, 10.0))
	assert.Equal(t, 10.0, pickPrice(0, 10.0))
	assert.Equal(t, 3.0, pickPrice(-1, 0, 3.0))
	assert.Equal(t, 1.0, pickPrice(0, 0, 0))
	assert.Equal(t, 1.0, pickPrice())
}
