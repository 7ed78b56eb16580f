package gateway

import (
	"context"
	"sync"

	"tourbook/entity"
)

type EmailMock struct {
	mock sync.Mutex

	Sent []entity.ConfirmationEmail
}

func (m *EmailMock) SendBookingConfirmation(_ context.Context, email entity.ConfirmationEmail) error {
	m.mock.Lock()
	defer m.mock.Unlock()
	m.Sent = append(m.Sent, email)
	return nil
}

func (m *EmailMock) SentEmails() []entity.ConfirmationEmail {
	m.mock.Lock()
	defer m.mock.Unlock()
	return append([]entity.ConfirmationEmail(nil), m.Sent...)
}
