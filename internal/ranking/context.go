package ranking

import (
	"context"

	"realestate-marketplace/internal/models"
)

var roomCategories = map[string][]string{
	"Apartment": {"Living Room", "Bedroom", "Dining Room"},
	"Penthouse": {"Living Room", "Bedroom", "Dining Room"},
	"Villa":     {"Living Room", "Bedroom", "Dining Room", "Outdoor"},
	"Townhouse": {"Living Room", "Bedroom", "Dining Room", "Outdoor"},
	"Chalet":    {"Living Room", "Bedroom", "Outdoor"},
}

// RoomCategoriesFor returns the furniture categories suited to a property
// type, or nil for an unknown type.
func RoomCategoriesFor(propertyType string) []string {
	cats, ok := roomCategories[propertyType]
	if !ok {
		return nil
	}
	out := make([]string, len(cats))
	copy(out, cats)
	return out
}

// PropertyContext resolves a property id to the furniture categories that fit it.
type PropertyContext struct {
	Properties Catalog[models.Property]
}

func (c PropertyContext) AllowedTypes(ctx context.Context, propertyID string) ([]string, error) {
	props, err := c.Properties.FindByIDs(ctx, []string{propertyID})
	if err != nil {
		return nil, err
	}
	if len(props) == 0 {
		return nil, ErrContextNotFound
	}
	return RoomCategoriesFor(props[0].PropertyType), nil
}
