package anymarket

import "encoding/json"

// ProductType identifies the product shape on the hub
type ProductType string

const (
	ProductSimple    ProductType = "SIMPLE"
	ProductVariation ProductType = "VARIATION"
	ProductKit       ProductType = "KIT"
)

// Product represents a product record in the AnyMarket v2 catalog.
// Fields tagged omitempty are cleared by the sanitizer before a create call.
type Product struct {
	ID                   int64            `json:"id,omitempty"`
	Title                string           `json:"title,omitempty"`
	Description          string           `json:"description,omitempty"`
	Type                 ProductType      `json:"type,omitempty"`
	PartnerID            string           `json:"partnerId,omitempty"`
	Category             *Category        `json:"category,omitempty"`
	Brand                *Brand           `json:"brand,omitempty"`
	Model                string           `json:"model,omitempty"`
	Gender               string           `json:"gender,omitempty"`
	VideoURL             string           `json:"videoUrl,omitempty"`
	WarrantyTime         int              `json:"warrantyTime,omitempty"`
	WarrantyText         string           `json:"warrantyText,omitempty"`
	Height               float64          `json:"height,omitempty"`
	Width                float64          `json:"width,omitempty"`
	Length               float64          `json:"length,omitempty"`
	Weight               float64          `json:"weight,omitempty"`
	PriceFactor          float64          `json:"priceFactor,omitempty"`
	CalculatedPrice      bool             `json:"calculatedPrice,omitempty"`
	DefinitionPriceScope string           `json:"definitionPriceScope,omitempty"`
	HasVariations        bool             `json:"hasVariations"`
	IsProductActive      bool             `json:"isProductActive,omitempty"`
	Characteristics      []Characteristic `json:"characteristics,omitempty"`
	Images               []Image          `json:"images,omitempty"`
	NBM                  *Ref             `json:"nbm,omitempty"`
	Origin               *Ref             `json:"origin,omitempty"`
	Skus                 []Sku            `json:"skus,omitempty"`

	// Legacy kit composition contract: one product-level component list.
	KitItems []KitItem `json:"kitItens,omitempty"`

	// Server-managed fields, never sent back on create.
	StockLocalID     int64             `json:"stockLocalId,omitempty"`
	AdditionalStocks []AdditionalStock `json:"additionalStocks,omitempty"`
	DataSource       string            `json:"dataSource,omitempty"`
	CreationDate     string            `json:"creationDate,omitempty"`
	ModificationDate string            `json:"modificationDate,omitempty"`

	AllowAutomaticSkuMarketplaceCreation bool `json:"allowAutomaticSkuMarketplaceCreation,omitempty"`
}

// Sku is one sellable unit of a product. PartnerID is the caller-assigned
// external code and must be unique within an account.
type Sku struct {
	ID           int64         `json:"id,omitempty"`
	IDVariation  int64         `json:"idVariation,omitempty"`
	PartnerID    string        `json:"partnerId,omitempty"`
	EAN          string        `json:"ean,omitempty"`
	Title        string        `json:"title,omitempty"`
	Price        float64       `json:"price,omitempty"`
	SellPrice    float64       `json:"sellPrice,omitempty"`
	Amount       int           `json:"amount"`
	Active       bool          `json:"active"`
	StockLocalID int64         `json:"stockLocalId,omitempty"`
	PriceFactor  float64       `json:"priceFactor,omitempty"`
	Variations   *VariationSet `json:"variations,omitempty"`

	// Resolved kit composition contract: components attached per SKU.
	Components []KitComponent `json:"components,omitempty"`
}

// KitItem is the legacy composition reference: a component identified by its
// partner code and a quantity.
type KitItem struct {
	Sku    string `json:"sku"`
	Amount int    `json:"amount"`
}

// KitComponent is the resolved composition contract. Either IDSku (catalog
// internal id) or IDInClient (partner code) identifies the component;
// StockLocalID must match the location its price was sourced from.
type KitComponent struct {
	IDSku           int64   `json:"idSku,omitempty"`
	IDInClient      string  `json:"idInClient,omitempty"`
	StockLocalID    int64   `json:"stockLocalId,omitempty"`
	Percentage      float64 `json:"percentage,omitempty"`
	Quantity        int     `json:"quantity,omitempty"`
	IsMainComponent bool    `json:"isMainComponent"`
	Price           float64 `json:"price,omitempty"`
}

// StockEntry is a read-only record from the stock-by-location endpoint.
type StockEntry struct {
	SkuID      int64   `json:"skuId,omitempty"`
	PartnerID  string  `json:"partnerId,omitempty"`
	Amount     float64 `json:"amount,omitempty"`
	Price      float64 `json:"price,omitempty"`
	Cost       float64 `json:"cost,omitempty"`
	StockLocal *Ref    `json:"stockLocal,omitempty"`
}

// Ref is a bare identifier reference used across nested payload objects.
type Ref struct {
	ID   int64  `json:"id"`
	Name string `json:"name,omitempty"`
}

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name,omitempty"`
	Path string `json:"path,omitempty"`
}

type Brand struct {
	ID        int64  `json:"id,omitempty"`
	Name      string `json:"name,omitempty"`
	PartnerID string `json:"partnerId,omitempty"`
}

type Characteristic struct {
	Index int    `json:"index,omitempty"`
	Name  string `json:"name,omitempty"`
	Value string `json:"value,omitempty"`
}

type Image struct {
	ID              int64  `json:"id,omitempty"`
	Index           int    `json:"index,omitempty"`
	Main            bool   `json:"main,omitempty"`
	URL             string `json:"url,omitempty"`
	ThumbnailURL    string `json:"thumbnailUrl,omitempty"`
	LowResolutionURL string `json:"lowResolutionUrl,omitempty"`
	StandardURL     string `json:"standardUrl,omitempty"`
	OriginalImage   string `json:"originalImage,omitempty"`
}

type AdditionalStock struct {
	StockLocalID int64 `json:"stockLocalId,omitempty"`
}

// RawVariation is a variation attribute as the read API returns it: a typed
// name plus a value description.
type RawVariation struct {
	Type        VariationType `json:"type"`
	Description string        `json:"description"`
}

type VariationType struct {
	ID   int64  `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// VariationSet holds a SKU's variation attributes. The read API returns a
// list of {type, description} pairs while the create API accepts a flat
// name-to-value map; both shapes decode into this type and whichever shape
// is populated is what gets marshaled back.
type VariationSet struct {
	raw  []RawVariation
	flat map[string]string
}

// NewFlatVariations builds a set already in the create-API shape.
func NewFlatVariations(values map[string]string) *VariationSet {
	return &VariationSet{flat: values}
}

// Flatten remaps the nested type/description structure into the flat
// name-to-value mapping the create API expects. Already-flat sets are
// returned as they are.
func (v *VariationSet) Flatten() *VariationSet {
	if v == nil {
		return nil
	}
	if v.flat != nil {
		return &VariationSet{flat: v.flat}
	}
	flat := make(map[string]string, len(v.raw))
	for _, rv := range v.raw {
		if rv.Type.Name == "" {
			continue
		}
		flat[rv.Type.Name] = rv.Description
	}
	if len(flat) == 0 {
		return nil
	}
	return &VariationSet{flat: flat}
}

// Values returns the flat name-to-value view of the set.
func (v *VariationSet) Values() map[string]string {
	f := v.Flatten()
	if f == nil {
		return nil
	}
	return f.flat
}

func (v *VariationSet) UnmarshalJSON(data []byte) error {
	var list []RawVariation
	if err := json.Unmarshal(data, &list); err == nil {
		v.raw = list
		v.flat = nil
		return nil
	}
	var flat map[string]string
	if err := json.Unmarshal(data, &flat); err != nil {
		return err
	}
	v.flat = flat
	v.raw = nil
	return nil
}

func (v VariationSet) MarshalJSON() ([]byte, error) {
	if v.flat != nil {
		return json.Marshal(v.flat)
	}
	return json.Marshal(v.raw)
}
