package usecase

import "context"

// CompositeRegistry asks each registry in order and returns the first endpoint found.
type CompositeRegistry struct {
	registries []EndpointRegistry
}

// EndpointFor stops at the first registry that finds the course or fails.
func (c *CompositeRegistry) EndpointFor(ctx context.Context, courseID string) (string, bool, error) {
	for _, registry := range c.registries {
		url, found, err := registry.EndpointFor(ctx, courseID)
		if err != nil {
			return "", false, err
		}
		if found {
			return url, true, nil
		}
	}
	return "", false, nil
}

// NewCompositeRegistry creates a registry that consults registries in priority order.
func NewCompositeRegistry(registries ...EndpointRegistry) *CompositeRegistry {
	return &CompositeRegistry{registries: registries}
}
