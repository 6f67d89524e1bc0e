package ingest

import (
	"fmt"
	"io/fs"
)

// MockReader serves files from memory for testing
type MockReader struct {
	Files     map[string][]byte
	MockError error
	Reads     int
}

// NewMockReader creates a mock with no files
func NewMockReader() *MockReader {
	return &MockReader{Files: make(map[string][]byte)}
}

func (m *MockReader) ReadFile(path string) ([]byte, error) {
	m.Reads++
	if m.MockError != nil {
		return nil, m.MockError
	}
	data, ok := m.Files[path]
	if !ok {
		return nil, fmt.Errorf("open %s: %w", path, fs.ErrNotExist)
	}
	return data, nil
}
