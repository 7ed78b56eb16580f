package app

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	"golang.org/x/sync/errgroup"

	"tourbook/booking"
	"tourbook/bookingcode"
	"tourbook/checkin"
	"tourbook/db"
	httpServer "tourbook/http"
	"tourbook/pubsub"
	"tourbook/pubsub/bus"
	"tourbook/pubsub/event"
)

func init() {
	log.Init(logrus.InfoLevel)
}

type App struct {
	watermillRouter *message.Router
	httpServer      *httpServer.Server
	traceProvider   *tracesdk.TracerProvider
}

func New(
	addr string,
	redisClient *redis.Client,
	paymentsService booking.PaymentVerifier,
	emailService event.EmailSender,
	rendererService event.TicketRenderer,
	manifestService event.ManifestAPI,
	traceProvider *tracesdk.TracerProvider,
) App {
	watermillLogger := log.NewWatermill(log.FromContext(context.Background()))

	redisPublisher := pubsub.NewRedisPublisher(redisClient, watermillLogger)
	redisPublisher = log.CorrelationPublisherDecorator{Publisher: redisPublisher}

	eventBus, err := bus.NewEventBus(redisPublisher)
	if err != nil {
		panic(fmt.Errorf("failed to create event bus: %w", err))
	}

	store := db.NewRetryingStore(db.NewRedisStore(redisClient))

	prefixRepo := db.NewPrefixRepository(store)
	availabilityRepo := db.NewAvailabilityRepository(store)
	bookingsRepo := db.NewBookingRepository(store)

	generator := bookingcode.NewGenerator(prefixRepo, bookingsRepo)
	tracker := checkin.NewTracker(store, bookingsRepo, eventBus)
	bookingService := booking.NewService(availabilityRepo, bookingsRepo, generator, paymentsService, eventBus)

	eventsHandler := event.NewHandler(emailService, rendererService, manifestService)
	eventProcessorConfig := event.NewProcessorConfig(redisClient, watermillLogger)

	watermillRouter, err := pubsub.NewWatermillRouter(
		eventProcessorConfig,
		eventsHandler,
		watermillLogger,
	)
	if err != nil {
		panic(fmt.Errorf("failed to create watermill router: %w", err))
	}

	server := httpServer.NewServer(
		addr,
		bookingService,
		bookingsRepo,
		tracker,
		availabilityRepo,
	)

	return App{
		watermillRouter: watermillRouter,
		httpServer:      server,
		traceProvider:   traceProvider,
	}
}

func (a App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	if a.traceProvider != nil {
		g.Go(func() error {
			<-ctx.Done()
			return a.traceProvider.Shutdown(context.Background())
		})
	}

	g.Go(func() error {
		return a.watermillRouter.Run(ctx)
	})

	g.Go(func() error {
		// the HTTP server shouldn't report healthy before the router consumes
		// events
		<-a.watermillRouter.Running()
		return a.httpServer.Run(ctx)
	})

	return g.Wait()
}
