package gateway

import (
	"context"
	"fmt"
	"sync"
)

type RenderedTicket struct {
	BookingID  string
	QRPayloads []string
}

type RendererMock struct {
	mock sync.Mutex

	Rendered []RenderedTicket
}

func (m *RendererMock) RenderTicketPDF(_ context.Context, bookingID string, qrPayloads []string) (string, error) {
	m.mock.Lock()
	defer m.mock.Unlock()
	m.Rendered = append(m.Rendered, RenderedTicket{
		BookingID:  bookingID,
		QRPayloads: qrPayloads,
	})
	return fmt.Sprintf("%s-tickets.pdf", bookingID), nil
}

func (m *RendererMock) RenderedTickets() []RenderedTicket {
	m.mock.Lock()
	defer m.mock.Unlock()
	return append([]RenderedTicket(nil), m.Rendered...)
}
