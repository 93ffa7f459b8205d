package app

import (
	"context"
	"fmt"

	deliveryService "github.com/allisson/coursehook/internal/delivery/service"
	deliveryUseCase "github.com/allisson/coursehook/internal/delivery/usecase"
)

// Signer returns the webhook signer, or nil when WEBHOOK_SIGNING_SECRET is empty.
func (c *Container) Signer() *deliveryService.Signer {
	c.signerInit.Do(func() {
		c.signer = deliveryService.NewSigner(c.config.WebhookSigningSecret)
	})
	return c.signer
}

// WebhookSender returns the outbound webhook transport.
func (c *Container) WebhookSender() deliveryService.Sender {
	c.webhookSenderInit.Do(func() {
		c.webhookSender = c.initWebhookSender()
	})
	return c.webhookSender
}

// InflightGuard returns the per-course dispatch guard. It is shared through Redis
// when REDIS_URL is set and process-local otherwise.
func (c *Container) InflightGuard() (deliveryService.InflightGuard, error) {
	var err error
	c.inflightGuardInit.Do(func() {
		c.inflightGuard, err = c.initInflightGuard()
		if err != nil {
			c.initErrors["inflightGuard"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["inflightGuard"]; exists {
		return nil, storedErr
	}
	return c.inflightGuard, nil
}

// DeadLetterArchive returns the archive for abandoned events.
func (c *Container) DeadLetterArchive() (deliveryService.DeadLetterArchive, error) {
	var err error
	c.deadLetterArchiveInit.Do(func() {
		c.deadLetterArchive, err = c.initDeadLetterArchive()
		if err != nil {
			c.initErrors["deadLetterArchive"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["deadLetterArchive"]; exists {
		return nil, storedErr
	}
	return c.deadLetterArchive, nil
}

// Dispatcher returns the per-course batch dispatcher.
func (c *Container) Dispatcher() (deliveryUseCase.Dispatcher, error) {
	var err error
	c.dispatcherInit.Do(func() {
		c.dispatcher, err = c.initDispatcher()
		if err != nil {
			c.initErrors["dispatcher"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["dispatcher"]; exists {
		return nil, storedErr
	}
	return c.dispatcher, nil
}

// Scheduler returns the delivery scheduler.
func (c *Container) Scheduler() (deliveryUseCase.Scheduler, error) {
	var err error
	c.schedulerInit.Do(func() {
		c.scheduler, err = c.initScheduler()
		if err != nil {
			c.initErrors["scheduler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["scheduler"]; exists {
		return nil, storedErr
	}
	return c.scheduler, nil
}

// initWebhookSender creates the HTTP transport from the dispatch settings.
func (c *Container) initWebhookSender() deliveryService.Sender {
	return deliveryService.NewWebhookSender(deliveryService.WebhookSenderConfig{
		Timeout:         c.config.DispatchTimeout,
		Compress:        c.config.DispatchCompress,
		RateLimitPerSec: c.config.DispatchRateLimitPerSec,
		RateLimitBurst:  c.config.DispatchRateLimitBurst,
		UserAgent:       "coursehook/" + c.version,
	}, c.Signer())
}

// initInflightGuard picks the Redis guard when Redis is configured.
func (c *Container) initInflightGuard() (deliveryService.InflightGuard, error) {
	client, err := c.RedisClient()
	if err != nil {
		return nil, fmt.Errorf("failed to get redis client for inflight guard: %w", err)
	}
	if client == nil {
		return deliveryService.NewLocalInflightGuard(), nil
	}
	return deliveryService.NewRedisInflightGuard(client, c.config.InflightLockTTL), nil
}

// initDeadLetterArchive prefers DEADLETTER_BUCKET_URL, then DEADLETTER_S3_BUCKET.
func (c *Container) initDeadLetterArchive() (deliveryService.DeadLetterArchive, error) {
	if c.config.DeadLetterBucketURL != "" {
		archive, err := deliveryService.OpenBlobDeadLetterArchive(
			context.Background(),
			c.config.DeadLetterBucketURL,
			c.config.DeadLetterS3Prefix,
		)
		if err != nil {
			return nil, err
		}
		c.blobArchive = archive
		return archive, nil
	}

	if c.config.DeadLetterS3Bucket == "" {
		return deliveryService.NewNoOpDeadLetterArchive(), nil
	}

	client, err := deliveryService.NewS3Client(context.Background(), c.config.AWSRegion)
	if err != nil {
		return nil, fmt.Errorf("failed to create s3 client for dead-letter archive: %w", err)
	}
	return deliveryService.NewS3DeadLetterArchive(
		client,
		c.config.DeadLetterS3Bucket,
		c.config.DeadLetterS3Prefix,
	), nil
}

// initDispatcher wires the dispatcher to the event log, registry, transport and archive.
func (c *Container) initDispatcher() (deliveryUseCase.Dispatcher, error) {
	events, err := c.EventUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get event use case for dispatcher: %w", err)
	}

	registry, err := c.EndpointRegistry()
	if err != nil {
		return nil, fmt.Errorf("failed to get endpoint registry for dispatcher: %w", err)
	}

	archive, err := c.DeadLetterArchive()
	if err != nil {
		return nil, fmt.Errorf("failed to get dead-letter archive for dispatcher: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for dispatcher: %w", err)
	}

	return deliveryUseCase.NewDispatcher(
		events,
		registry,
		c.WebhookSender(),
		archive,
		businessMetrics,
		c.Logger(),
	), nil
}

// initScheduler creates the scheduler from the dispatch settings.
func (c *Container) initScheduler() (deliveryUseCase.Scheduler, error) {
	if err := c.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dispatch configuration: %w", err)
	}

	events, err := c.EventUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get event use case for scheduler: %w", err)
	}

	dispatcher, err := c.Dispatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to get dispatcher for scheduler: %w", err)
	}

	guard, err := c.InflightGuard()
	if err != nil {
		return nil, fmt.Errorf("failed to get inflight guard for scheduler: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for scheduler: %w", err)
	}

	return deliveryUseCase.NewScheduler(
		deliveryUseCase.SchedulerConfig{
			Interval:    c.config.DispatchInterval,
			BatchSize:   c.config.DispatchBatchSize,
			Concurrency: c.config.DispatchConcurrency,
		},
		events,
		dispatcher,
		guard,
		businessMetrics,
		c.Logger(),
	), nil
}
