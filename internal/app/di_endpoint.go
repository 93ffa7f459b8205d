package app

import (
	"fmt"
	"log/slog"

	"github.com/allisson/coursehook/internal/config"
	"github.com/allisson/coursehook/internal/database"
	endpointCache "github.com/allisson/coursehook/internal/endpoint/cache"
	endpointRepository "github.com/allisson/coursehook/internal/endpoint/repository"
	endpointUseCase "github.com/allisson/coursehook/internal/endpoint/usecase"
)

// EndpointRepository returns the course endpoint repository matching the database driver.
func (c *Container) EndpointRepository() (endpointUseCase.EndpointRepository, error) {
	var err error
	c.endpointRepoInit.Do(func() {
		c.endpointRepository, err = c.initEndpointRepository()
		if err != nil {
			c.initErrors["endpointRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["endpointRepository"]; exists {
		return nil, storedErr
	}
	return c.endpointRepository, nil
}

// EndpointUseCase returns the use case managing stored course endpoints.
// Changes invalidate the Redis lookup cache when one is configured.
func (c *Container) EndpointUseCase() (endpointUseCase.EndpointUseCase, error) {
	var err error
	c.endpointUseCaseInit.Do(func() {
		c.endpointUseCase, err = c.initEndpointUseCase()
		if err != nil {
			c.initErrors["endpointUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["endpointUseCase"]; exists {
		return nil, storedErr
	}
	return c.endpointUseCase, nil
}

// EndpointCache returns the Redis read-through cache over stored endpoints,
// or nil when REDIS_URL is not set.
func (c *Container) EndpointCache() (*endpointCache.CachedRegistry, error) {
	var err error
	c.endpointCacheInit.Do(func() {
		c.endpointCache, err = c.initEndpointCache()
		if err != nil {
			c.initErrors["endpointCache"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["endpointCache"]; exists {
		return nil, storedErr
	}
	return c.endpointCache, nil
}

// EndpointRegistry returns the registry selected by ENDPOINT_REGISTRY.
func (c *Container) EndpointRegistry() (endpointUseCase.EndpointRegistry, error) {
	var err error
	c.endpointRegistryInit.Do(func() {
		c.endpointRegistry, err = c.initEndpointRegistry()
		if err != nil {
			c.initErrors["endpointRegistry"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["endpointRegistry"]; exists {
		return nil, storedErr
	}
	return c.endpointRegistry, nil
}

// initEndpointRepository selects the endpoint repository for the configured driver.
func (c *Container) initEndpointRepository() (endpointUseCase.EndpointRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for endpoint repository: %w", err)
	}

	switch c.config.DBDriver {
	case database.DriverPostgres:
		return endpointRepository.NewPostgreSQLEndpointRepository(db), nil
	case database.DriverMySQL:
		return endpointRepository.NewMySQLEndpointRepository(db), nil
	case database.DriverSQLite:
		return endpointRepository.NewSQLiteEndpointRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initEndpointUseCase creates the endpoint use case used by the CLI.
func (c *Container) initEndpointUseCase() (endpointUseCase.EndpointUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for endpoint use case: %w", err)
	}

	repository, err := c.EndpointRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get endpoint repository for endpoint use case: %w", err)
	}

	cache, err := c.EndpointCache()
	if err != nil {
		return nil, fmt.Errorf("failed to get endpoint cache for endpoint use case: %w", err)
	}

	// A nil *CachedRegistry must not become a non-nil interface.
	if cache == nil {
		return endpointUseCase.NewEndpointUseCase(txManager, repository, nil), nil
	}
	return endpointUseCase.NewEndpointUseCase(txManager, repository, cache), nil
}

// initEndpointCache wraps a lookup-only endpoint use case with the Redis cache.
func (c *Container) initEndpointCache() (*endpointCache.CachedRegistry, error) {
	client, err := c.RedisClient()
	if err != nil {
		return nil, fmt.Errorf("failed to get redis client for endpoint cache: %w", err)
	}
	if client == nil {
		return nil, nil
	}

	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for endpoint cache: %w", err)
	}

	repository, err := c.EndpointRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get endpoint repository for endpoint cache: %w", err)
	}

	lookup := endpointUseCase.NewEndpointUseCase(txManager, repository, nil)
	return endpointCache.NewCachedRegistry(lookup, client, c.config.EndpointCacheTTL, c.Logger()), nil
}

// initEndpointRegistry builds the registry the dispatcher resolves course URLs with.
func (c *Container) initEndpointRegistry() (endpointUseCase.EndpointRegistry, error) {
	var static *endpointUseCase.StaticRegistry
	if c.config.EndpointRegistry != config.EndpointRegistryDatabase {
		endpoints, err := endpointUseCase.ParseCourseEndpoints(c.config.CourseEndpoints)
		if err != nil {
			return nil, fmt.Errorf("failed to parse COURSE_ENDPOINTS: %w", err)
		}
		static = endpointUseCase.NewStaticRegistry(endpoints)

		if static.Len() == 0 && c.config.EndpointRegistry == config.EndpointRegistryConfig {
			c.Logger().Warn("COURSE_ENDPOINTS is empty, every event will be marked delivered without a webhook call")
		} else {
			c.Logger().Info("static course endpoints loaded",
				slog.String("registry", c.config.EndpointRegistry),
				slog.Int("courses", static.Len()),
			)
		}
	}

	if c.config.EndpointRegistry == config.EndpointRegistryConfig {
		return static, nil
	}

	stored, err := c.storedEndpointRegistry()
	if err != nil {
		return nil, err
	}

	switch c.config.EndpointRegistry {
	case config.EndpointRegistryDatabase:
		return stored, nil
	case config.EndpointRegistryComposite:
		return endpointUseCase.NewCompositeRegistry(static, stored), nil
	default:
		return nil, fmt.Errorf("unsupported endpoint registry: %s", c.config.EndpointRegistry)
	}
}

// storedEndpointRegistry returns the cached registry when Redis is configured,
// otherwise the endpoint use case itself.
func (c *Container) storedEndpointRegistry() (endpointUseCase.EndpointRegistry, error) {
	cache, err := c.EndpointCache()
	if err != nil {
		return nil, fmt.Errorf("failed to get endpoint cache for endpoint registry: %w", err)
	}
	if cache != nil {
		return cache, nil
	}

	useCase, err := c.EndpointUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get endpoint use case for endpoint registry: %w", err)
	}
	return useCase, nil
}
