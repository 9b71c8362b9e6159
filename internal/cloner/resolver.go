package cloner

import (
	"context"

	"github.com/sirupsen/logrus"

	"anymarket-cloner/internal/anymarket"
)

// CatalogAPI is the slice of the hub client the resolver depends on.
type CatalogAPI interface {
	SearchProductsBySku(ctx context.Context, partnerCode string) ([]anymarket.Product, error)
	GetStocks(ctx context.Context, query anymarket.StockQuery) ([]anymarket.StockEntry, error)
}

var _ CatalogAPI = (*anymarket.Client)(nil)

// Resolver turns partner-supplied SKU codes into catalog internal ids and
// looks up component prices at one stock location.
type Resolver struct {
	api          CatalogAPI
	stockLocalID int64
	policy       AggregationPolicy
	logger       *logrus.Entry
}

// NewResolver creates a resolver bound to one stock location.
func NewResolver(api CatalogAPI, stockLocalID int64, policy AggregationPolicy, logger *logrus.Entry) *Resolver {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Resolver{
		api:          api,
		stockLocalID: stockLocalID,
		policy:       policy,
		logger:       logger,
	}
}

// ResolveInternalID resolves a partner code to the catalog's internal SKU
// id. An exact partner-code match anywhere in the candidate set wins; when
// no exact match exists, the first SKU of the first candidate is used. An
// empty candidate set is reported as found=false, not as an error.
func (r *Resolver) ResolveInternalID(ctx context.Context, partnerCode string) (int64, bool, error) {
	candidates, err := r.api.SearchProductsBySku(ctx, partnerCode)
	if err != nil {
		return 0, false, err
	}

	for _, product := range candidates {
		for _, sku := range product.Skus {
			if sku.PartnerID == partnerCode {
				return sku.ID, true, nil
			}
		}
	}
	for _, product := range candidates {
		if len(product.Skus) > 0 {
			return product.Skus[0].ID, true, nil
		}
	}
	return 0, false, nil
}

// ComponentPrice resolves the current price of a component SKU at the
// resolver's stock location. The partner code is tried first; if the stock
// endpoint has nothing under it, the internal id is resolved and tried.
// When no entry qualifies the price defaults to 1.0, since the create
// endpoint rejects null and zero prices.
func (r *Resolver) ComponentPrice(ctx context.Context, partnerCode string) (float64, error) {
	prices, err := r.pricesAt(ctx, anymarket.StockQuery{Sku: partnerCode, StockLocalID: r.stockLocalID})
	if err != nil {
		return 0, err
	}

	if len(prices) == 0 {
		skuID, found, err := r.ResolveInternalID(ctx, partnerCode)
		if err != nil {
			return 0, err
		}
		if found {
			prices, err = r.pricesAt(ctx, anymarket.StockQuery{SkuID: skuID, StockLocalID: r.stockLocalID})
			if err != nil {
				return 0, err
			}
		}
	}

	if len(prices) == 0 {
		r.logger.WithFields(logrus.Fields{
			"sku":          partnerCode,
			"stockLocalId": r.stockLocalID,
		}).Warn("no stock entry found for component, using floor price")
		return 1.0, nil
	}
	return r.policy.Apply(prices), nil
}

// pricesAt collects prices for the query, keeping only entries at the
// resolver's location. The endpoint is supposed to honor the stockLocalId
// filter but does not always; the client-side check guards against that.
func (r *Resolver) pricesAt(ctx context.Context, query anymarket.StockQuery) ([]float64, error) {
	entries, err := r.api.GetStocks(ctx, query)
	if err != nil {
		if apiErr, ok := err.(*anymarket.APIError); ok {
			r.logger.WithFields(logrus.Fields{
				"status": apiErr.Status,
				"sku":    query.Sku,
				"skuId":  query.SkuID,
			}).Warn("stock lookup failed")
			return nil, nil
		}
		return nil, err
	}

	var prices []float64
	for _, entry := range entries {
		if entry.StockLocal == nil || entry.StockLocal.ID != r.stockLocalID {
			continue
		}
		prices = append(prices, entry.Price)
	}
	return prices, nil
}
