package testing

import (
	"errors"
	"sort"
	"strings"
)

// ErrBackend is returned by [FailingBackend].
var ErrBackend = errors.New("backend unavailable")

// CountingBackend is an in-memory key/value backend that counts calls.
type CountingBackend struct {
	Data    map[string]string
	Gets    int
	Sets    int
	Removes int
}

func NewCountingBackend() *CountingBackend {
	return &CountingBackend{Data: make(map[string]string)}
}

func (b *CountingBackend) Get(key string) (string, bool, error) {
	b.Gets++
	v, ok := b.Data[key]
	return v, ok, nil
}

func (b *CountingBackend) Set(key, value string) error {
	b.Sets++
	b.Data[key] = value
	return nil
}

func (b *CountingBackend) Remove(key string) error {
	b.Removes++
	delete(b.Data, key)
	return nil
}

func (b *CountingBackend) Keys(prefix string) ([]string, error) {
	keys := make([]string, 0, len(b.Data))
	for k := range b.Data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// FailingBackend fails every call.
type FailingBackend struct {
	Calls int
}

func (b *FailingBackend) Get(string) (string, bool, error) {
	b.Calls++
	return "", false, ErrBackend
}

func (b *FailingBackend) Set(string, string) error {
	b.Calls++
	return ErrBackend
}

func (b *FailingBackend) Remove(string) error {
	b.Calls++
	return ErrBackend
}
