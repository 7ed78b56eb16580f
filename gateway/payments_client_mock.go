package gateway

import (
	"context"
	"sync"
)

type PaymentsMock struct {
	mock sync.Mutex

	// Verified maps payment intent IDs to their verification result.
	Verified map[string]bool
}

func (m *PaymentsMock) VerifyPayment(_ context.Context, paymentIntentID string) (bool, error) {
	m.mock.Lock()
	defer m.mock.Unlock()
	return m.Verified[paymentIntentID], nil
}
