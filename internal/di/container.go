package di

import (
	"github.com/slotstage/backend/internal/handler"
	"github.com/slotstage/backend/internal/repository"
	"github.com/slotstage/backend/internal/service"
	"github.com/slotstage/backend/pkg/database"
	"github.com/slotstage/backend/pkg/redis"
)

// Container holds all dependencies for the backend
type Container struct {
	// Infrastructure
	DB    *database.PostgresDB
	Redis *redis.Client

	// Repositories
	EventRepo   repository.EventStore
	SlotRepo    repository.SlotStore
	BookingRepo repository.BookingStore
	RequestRepo repository.B2BRequestStore
	Cache       repository.AvailabilityCache

	// Publishers
	EventPublisher service.EventPublisher

	// Services
	EventService       service.EventService
	AllocatorService   service.AllocatorService
	PartnershipService service.PartnershipService
	ViewService        service.ViewService

	// Handlers
	HealthHandler  *handler.HealthHandler
	EventHandler   *handler.EventHandler
	BookingHandler *handler.BookingHandler
	B2BHandler     *handler.B2BHandler
}

// ContainerConfig contains configuration for building the container
type ContainerConfig struct {
	DB             *database.PostgresDB
	Redis          *redis.Client
	EventPublisher service.EventPublisher
	ViewConfig     *service.ViewServiceConfig
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *ContainerConfig) *Container {
	c := &Container{
		DB:             cfg.DB,
		Redis:          cfg.Redis,
		EventPublisher: cfg.EventPublisher,
	}

	// Repositories
	pool := c.DB.Pool()
	c.EventRepo = repository.NewPostgresEventRepository(pool)
	c.SlotRepo = repository.NewPostgresSlotRepository(pool)
	c.BookingRepo = repository.NewPostgresBookingRepository(pool)
	c.RequestRepo = repository.NewPostgresB2BRepository(pool)
	if c.Redis != nil {
		c.Cache = repository.NewRedisAvailabilityCache(c.Redis)
	}

	// Services
	c.EventService = service.NewEventService(c.EventRepo, c.SlotRepo, c.EventPublisher)
	c.AllocatorService = service.NewAllocatorService(c.EventRepo, c.SlotRepo, c.BookingRepo, c.Cache, c.EventPublisher)
	c.PartnershipService = service.NewPartnershipService(c.BookingRepo, c.EventRepo, c.RequestRepo, c.EventPublisher)
	c.ViewService = service.NewViewService(c.EventRepo, c.SlotRepo, c.BookingRepo, c.RequestRepo, c.Cache, cfg.ViewConfig)

	// Handlers
	c.HealthHandler = handler.NewHealthHandler(c.DB, c.Redis)
	c.EventHandler = handler.NewEventHandler(c.EventService, c.ViewService)
	c.BookingHandler = handler.NewBookingHandler(c.AllocatorService, c.PartnershipService, c.ViewService)
	c.B2BHandler = handler.NewB2BHandler(c.PartnershipService)

	return c
}
