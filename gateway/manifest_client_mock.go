package gateway

import (
	"context"
	"sync"
)

type ManifestMock struct {
	mock sync.Mutex

	Rows map[string][][]string
}

func (m *ManifestMock) AppendRow(_ context.Context, manifestName string, row []string) error {
	m.mock.Lock()
	defer m.mock.Unlock()
	if m.Rows == nil {
		m.Rows = make(map[string][][]string)
	}
	m.Rows[manifestName] = append(m.Rows[manifestName], row)
	return nil
}

func (m *ManifestMock) RowsFor(manifestName string) [][]string {
	m.mock.Lock()
	defer m.mock.Unlock()
	return append([][]string(nil), m.Rows[manifestName]...)
}
