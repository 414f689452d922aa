package media

import (
	"bytes"
	"context"
	"io"
	"sync"
	"time"
)

// Memory keeps uploads in memory. Tests use it in place of a real store.
type Memory struct {
	mu      sync.Mutex
	objects map[string][]byte
	Err     error // returned by Upload when set
}

func NewMemory() *Memory {
	return &Memory{objects: make(map[string][]byte)}
}

func (m *Memory) Upload(_ context.Context, obj Object) (string, error) {
	if err := Validate(obj); err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return "", m.Err
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, obj.Body); err != nil {
		return "", err
	}

	key := ObjectKey(obj, time.Now())
	m.objects[key] = buf.Bytes()
	return "memory://" + key, nil
}

// Len returns the number of stored objects.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}
