package service

import (
	"context"
	"math/rand"

	"storefront/internal/client"
	"storefront/internal/model"
	"storefront/internal/session"
)

const defaultMaxResults = 4

// RecommendationService proxies the recommendation engine and ships a fixed
// simulated catalog for when it is down.
type RecommendationService struct {
	gateway client.Gateway
}

func NewRecommendationService(gateway client.Gateway) *RecommendationService {
	return &RecommendationService{gateway: gateway}
}

func (s *RecommendationService) ForProduct(ctx context.Context, productID string, maxResults int) []model.Product {
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	products, err := s.gateway.ProductRecommendations(ctx, productID, maxResults)
	if err != nil || len(products) == 0 {
		return s.Simulated(maxResults)
	}
	return products
}

func (s *RecommendationService) ForUser(ctx context.Context, sess *session.Session, maxResults int) []model.Product {
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	token := sess.Token(ctx)
	if token == "" {
		return s.Simulated(maxResults)
	}
	products, err := s.gateway.UserRecommendations(ctx, token, maxResults)
	if err != nil || len(products) == 0 {
		return s.Simulated(maxResults)
	}
	return products
}

var simulatedCatalog = []model.Product{
	{ID: "1", Name: "Smartphone Premium", Price: 999.99, ImageURL: "https://via.placeholder.com/300x200"},
	{ID: "2", Name: "Laptop Pro", Price: 1299.99, ImageURL: "https://via.placeholder.com/300x200"},
	{ID: "3", Name: "Wireless Headphones", Price: 199.99, ImageURL: "https://via.placeholder.com/300x200"},
	{ID: "4", Name: "Smartwatch", Price: 249.99, ImageURL: "https://via.placeholder.com/300x200"},
	{ID: "5", Name: "Coffee Maker", Price: 79.99, ImageURL: "https://via.placeholder.com/300x200"},
	{ID: "6", Name: "Blender", Price: 49.99, ImageURL: "https://via.placeholder.com/300x200"},
	{ID: "7", Name: "Toaster", Price: 29.99, ImageURL: "https://via.placeholder.com/300x200"},
	{ID: "8", Name: "Running Shoes", Price: 129.99, ImageURL: "https://via.placeholder.com/300x200"},
}

// Simulated returns a random sample of the fixed demo catalog.
func (s *RecommendationService) Simulated(maxResults int) []model.Product {
	shuffled := make([]model.Product, len(simulatedCatalog))
	copy(shuffled, simulatedCatalog)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	if maxResults > len(shuffled) {
		maxResults = len(shuffled)
	}
	return shuffled[:maxResults]
}
