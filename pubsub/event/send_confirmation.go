package event

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"

	"tourbook/entity"
)

// SendConfirmationHandler renders the ticket PDF for a fresh booking and
// mails it to the customer. Retried by the router middleware on failure, so a
// flaky renderer or mail gateway delays the confirmation instead of losing
// it.
func (h Handler) SendConfirmationHandler() cqrs.EventHandler {
	return cqrs.NewEventHandler(
		"SendConfirmationHandler",
		func(ctx context.Context, event *entity.BookingMade) error {
			log.FromContext(ctx).
				WithField("booking_id", event.BookingID).
				Info("Sending booking confirmation")

			fileName, err := h.renderer.RenderTicketPDF(ctx, event.BookingID, event.QRCodes)
			if err != nil {
				return fmt.Errorf("failed to render tickets: %w", err)
			}

			err = h.emailSender.SendBookingConfirmation(ctx, entity.ConfirmationEmail{
				To:             event.CustomerEmail,
				BookingID:      event.BookingID,
				TotalPrice:     event.TotalPrice,
				AttachmentName: fileName,
			})
			if err != nil {
				return fmt.Errorf("failed to send confirmation email: %w", err)
			}

			return nil
		},
	)
}
