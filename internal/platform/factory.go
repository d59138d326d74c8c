package platform

import (
	"errors"
	"fmt"
	"runtime"
	"sort"
	"sync"
)

var ErrUnsupported = errors.New("operation not supported on this platform")

// Builder constructs the services for one GOOS.
type Builder func() Platform

var (
	mu       sync.RWMutex
	builders = make(map[string]Builder)
	current  Platform
)

// Register makes b the platform for goos. OS packages call it from init.
func Register(goos string, b Builder) {
	mu.Lock()
	defer mu.Unlock()
	builders[goos] = b
}

// Registered lists the GOOS values that have a platform, sorted.
func Registered() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Current returns the platform for runtime.GOOS, building it on first use.
func Current() Platform {
	mu.RLock()
	p := current
	mu.RUnlock()
	if p != nil {
		return p
	}

	mu.Lock()
	defer mu.Unlock()
	if current == nil {
		current = build(runtime.GOOS)
	}
	return current
}

func build(goos string) Platform {
	if b, ok := builders[goos]; ok {
		return b()
	}
	return Unsupported(goos)
}

// Unsupported returns a platform whose services all fail with ErrUnsupported.
func Unsupported(goos string) *Services {
	u := unsupported{goos: goos}
	return &Services{
		GOOS:       goos,
		Background: u,
		Files:      u,
		Fallback:   true,
	}
}

type unsupported struct {
	goos string
}

func (u unsupported) Set(string) error     { return u.err("setting the wallpaper") }
func (u unsupported) Get() (string, error) { return "", u.err("reading the wallpaper") }
func (u unsupported) Reveal(string) error  { return u.err("revealing files") }
func (u unsupported) Open(string) error    { return u.err("opening folders") }
func (u unsupported) err(op string) error  { return fmt.Errorf("%s on %s: %w", op, u.goos, ErrUnsupported) }

// SetPlatform replaces the current platform. Tests use it to fake the OS.
func SetPlatform(p Platform) {
	mu.Lock()
	defer mu.Unlock()
	current = p
}

// ResetPlatform drops the current platform so the next Current rebuilds it.
func ResetPlatform() {
	mu.Lock()
	defer mu.Unlock()
	current = nil
}
