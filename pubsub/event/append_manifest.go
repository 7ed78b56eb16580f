package event

import (
	"context"
	"fmt"
	"strconv"

	"github.com/ThreeDotsLabs/watermill/components/cqrs"

	"tourbook/entity"
)

// AppendManifestHandler mirrors every check-in scan onto the per-date ops
// boarding manifest. Appends only; the manifest is a scan log for the crew,
// not the current-state view.
func (h Handler) AppendManifestHandler() cqrs.EventHandler {
	return cqrs.NewEventHandler(
		"AppendManifestHandler",
		func(ctx context.Context, event *entity.PassengerCheckedIn) error {
			err := h.manifest.AppendRow(
				ctx,
				"checkins-"+event.SelectedDate,
				[]string{
					event.BookingID,
					strconv.Itoa(event.PassengerIndex),
					event.Destination,
					event.Location,
					strconv.FormatBool(event.Repeat),
				},
			)
			if err != nil {
				return fmt.Errorf("failed to append to boarding manifest: %w", err)
			}
			return nil
		},
	)
}
