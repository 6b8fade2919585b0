package scanner

import (
	"errors"
	"fmt"
	"strings"

	"TubeDigest/internal/ports"
)

// ErrResolution is returned when a channel cannot be resolved by its directory.
var ErrResolution = errors.New("channel resolution failed")

// Directory captures a single channel directory implementation (YouTube API, channel pages, etc.).
type Directory interface {
	ports.ChannelDirectory
	Name() string
}

// Registry keeps a mapping from provider names to their directories.
type Registry struct {
	directories map[string]Directory
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{directories: map[string]Directory{}}
}

// Register adds or replaces a directory implementation.
func (r *Registry) Register(dir Directory) {
	if r.directories == nil {
		r.directories = map[string]Directory{}
	}
	r.directories[strings.ToLower(dir.Name())] = dir
}

// Resolve returns a directory by provider name or an error if it is absent.
func (r *Registry) Resolve(name string) (Directory, error) {
	if dir, ok := r.directories[strings.ToLower(name)]; ok {
		return dir, nil
	}
	return nil, fmt.Errorf("directory %s is not registered", name)
}
