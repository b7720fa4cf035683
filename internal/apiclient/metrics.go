package apiclient

import (
	"context"
	"net/http"

	"github.com/xenking/otamanga-storefront/internal/domain/metrics"
	"github.com/xenking/otamanga-storefront/internal/domain/product"
)

// MetricService groups the analytics endpoints.
type MetricService struct{ c *Client }

// RegisterClick records a product view.
func (s *MetricService) RegisterClick(ctx context.Context, click metrics.Click) error {
	_, err := s.c.Request(ctx, "/Metrics/click", Options{
		Method: http.MethodPost,
		Body:   encodeClick(click),
	})
	return err
}

// Top returns the most clicked products.
func (s *MetricService) Top(ctx context.Context) ([]metrics.TopItem, error) {
	return fetchList(ctx, s.c, "/Metrics/top", Options{}, decodeTopItem)
}

// CategoryRanking returns categories ordered by clicks.
func (s *MetricService) CategoryRanking(ctx context.Context) ([]metrics.CategoryRank, error) {
	return fetchList(ctx, s.c, "/Metrics/category-ranking", Options{}, decodeCategoryRank)
}

// RecommendationService serves product recommendations.
type RecommendationService struct{ c *Client }

// List returns the recommended products for the current session.
func (s *RecommendationService) List(ctx context.Context) ([]product.Product, error) {
	return fetchList(ctx, s.c, "/Recommendations", Options{}, decodeProduct)
}
