package app

import (
	"fmt"

	"github.com/allisson/coursehook/internal/database"
	eventHTTP "github.com/allisson/coursehook/internal/event/http"
	eventRepository "github.com/allisson/coursehook/internal/event/repository"
	eventUseCase "github.com/allisson/coursehook/internal/event/usecase"
)

// EventRepository returns the event repository matching the database driver.
func (c *Container) EventRepository() (eventUseCase.EventRepository, error) {
	var err error
	c.eventRepositoryInit.Do(func() {
		c.eventRepository, err = c.initEventRepository()
		if err != nil {
			c.initErrors["eventRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["eventRepository"]; exists {
		return nil, storedErr
	}
	return c.eventRepository, nil
}

// EventUseCase returns the event log use case.
func (c *Container) EventUseCase() (eventUseCase.EventUseCase, error) {
	var err error
	c.eventUseCaseInit.Do(func() {
		c.eventUseCase, err = c.initEventUseCase()
		if err != nil {
			c.initErrors["eventUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["eventUseCase"]; exists {
		return nil, storedErr
	}
	return c.eventUseCase, nil
}

// EventHandler returns the HTTP handler for the event log.
func (c *Container) EventHandler() (*eventHTTP.EventHandler, error) {
	var err error
	c.eventHandlerInit.Do(func() {
		c.eventHandler, err = c.initEventHandler()
		if err != nil {
			c.initErrors["eventHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["eventHandler"]; exists {
		return nil, storedErr
	}
	return c.eventHandler, nil
}

// initEventRepository selects the event repository for the configured driver.
func (c *Container) initEventRepository() (eventUseCase.EventRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for event repository: %w", err)
	}

	switch c.config.DBDriver {
	case database.DriverPostgres:
		return eventRepository.NewPostgreSQLEventRepository(db), nil
	case database.DriverMySQL:
		return eventRepository.NewMySQLEventRepository(db), nil
	case database.DriverSQLite:
		return eventRepository.NewSQLiteEventRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initEventUseCase creates the event log use case, wrapped with metrics when enabled.
func (c *Container) initEventUseCase() (eventUseCase.EventUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for event use case: %w", err)
	}

	repository, err := c.EventRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get event repository for event use case: %w", err)
	}

	baseUseCase := eventUseCase.NewEventUseCase(txManager, repository, c.config.DispatchMaxAttempts)

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for event use case: %w", err)
		}
		return eventUseCase.NewEventUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initEventHandler creates the event HTTP handler.
func (c *Container) initEventHandler() (*eventHTTP.EventHandler, error) {
	useCase, err := c.EventUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get event use case for event handler: %w", err)
	}
	return eventHTTP.NewEventHandler(useCase, c.Logger()), nil
}
