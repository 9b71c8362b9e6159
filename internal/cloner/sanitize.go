package cloner

import "anymarket-cloner/internal/anymarket"

// Sanitize clears every field the create endpoint rejects or manages itself:
// identity, audit timestamps, data-source tag, stock binding, brand
// reference and any pre-existing kit composition. It is pure and idempotent;
// fields that are already empty stay empty.
func Sanitize(p anymarket.Product) anymarket.Product {
	p.ID = 0
	p.CreationDate = ""
	p.ModificationDate = ""
	p.DataSource = ""
	p.StockLocalID = 0
	p.PartnerID = ""
	p.AllowAutomaticSkuMarketplaceCreation = false
	p.CalculatedPrice = false
	p.IsProductActive = false
	p.AdditionalStocks = nil
	p.Brand = nil
	p.KitItems = nil

	if len(p.Skus) > 0 {
		skus := make([]anymarket.Sku, len(p.Skus))
		copy(skus, p.Skus)
		for i := range skus {
			skus[i].Components = nil
		}
		p.Skus = skus
	}
	return p
}
