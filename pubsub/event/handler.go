package event

import (
	"context"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/redis/go-redis/v9"

	"tourbook/entity"
)

type EmailSender interface {
	SendBookingConfirmation(ctx context.Context, email entity.ConfirmationEmail) error
}

type TicketRenderer interface {
	RenderTicketPDF(ctx context.Context, bookingID string, qrPayloads []string) (string, error)
}

type ManifestAPI interface {
	AppendRow(ctx context.Context, manifestName string, row []string) error
}

type Handler struct {
	emailSender EmailSender
	renderer    TicketRenderer
	manifest    ManifestAPI
}

func NewHandler(
	emailSender EmailSender,
	renderer TicketRenderer,
	manifest ManifestAPI,
) Handler {
	return Handler{
		emailSender: emailSender,
		renderer:    renderer,
		manifest:    manifest,
	}
}

func NewProcessorConfig(rdb *redis.Client, watermillLogger watermill.LoggerAdapter) cqrs.EventProcessorConfig {
	return cqrs.EventProcessorConfig{
		SubscriberConstructor: func(params cqrs.EventProcessorSubscriberConstructorParams) (message.Subscriber, error) {
			return redisstream.NewSubscriber(redisstream.SubscriberConfig{
				Client:        rdb,
				ConsumerGroup: "svc-tourbook." + params.HandlerName,
			}, watermillLogger)
		},
		GenerateSubscribeTopic: func(params cqrs.EventProcessorGenerateSubscribeTopicParams) (string, error) {
			return "events." + params.EventName, nil
		},
		Marshaler: cqrs.JSONMarshaler{
			GenerateName: cqrs.StructName,
		},
		Logger: watermillLogger,
	}
}
