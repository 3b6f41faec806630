package repository

import (
	"context"

	"umrahportal/internal/model"
)

// ItineraryRepository persists itineraries with their days as JSON.
type ItineraryRepository interface {
	Create(ctx context.Context, it *model.Itinerary) (*model.Itinerary, error)
	FindByID(ctx context.Context, id string) (*model.Itinerary, error)
	ListByPackage(ctx context.Context, packageID string) ([]model.Itinerary, error)
	ListByPackages(ctx context.Context, packageIDs []string) ([]model.Itinerary, error)
	UpdateStatus(ctx context.Context, id string, status model.ItineraryStatus) error
}
