package ingest

import (
	"os"
)

// Reader fetches raw source bytes
type Reader interface {
	ReadFile(path string) ([]byte, error)
}

// OSReader reads from the local filesystem
type OSReader struct{}

// NewReader creates the default filesystem reader
func NewReader() Reader {
	return OSReader{}
}

func (OSReader) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}
