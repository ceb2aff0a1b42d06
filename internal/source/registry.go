package source

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

type Factory func() (Decoder, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{
		"ffmpeg": func() (Decoder, error) { return NewFFmpegDecoder(), nil },
		"images": func() (Decoder, error) { return ImageSequenceDecoder{}, nil },
	}
)

// Register adds a decoder backend, e.g. the cgo OpenCV one.
func Register(name string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[name] = f
}

// NewDecoder creates a decoder by backend name; "" means ffmpeg.
func NewDecoder(name string) (Decoder, error) {
	if name == "" {
		name = "ffmpeg"
	}

	mu.RLock()
	f, ok := factories[name]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown decoder %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return f()
}

func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
