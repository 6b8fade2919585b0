package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/cases"
	"gopkg.in/yaml.v3"
)

const (
	defaultPromptKey = "default"
	digestPromptKey  = "digest"
)

// ErrPromptNotFound is returned when neither the channel nor the default key has a prompt.
var ErrPromptNotFound = errors.New("prompt not found")

// Prompts maps channel identifiers to system prompts, compared case-insensitively.
type Prompts struct {
	entries map[string]string
	fold    cases.Caser
}

// NewPrompts builds a registry from an in-memory mapping.
func NewPrompts(raw map[string]string) *Prompts {
	p := &Prompts{entries: make(map[string]string, len(raw)), fold: cases.Fold()}
	for key, prompt := range raw {
		p.entries[p.key(key)] = prompt
	}
	return p
}

// LoadPrompts reads a YAML mapping of channel: prompt.
func LoadPrompts(path string) (*Prompts, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prompts %s: %w", path, err)
	}
	return ParsePrompts(raw)
}

// ParsePrompts decodes a YAML prompt document.
func ParsePrompts(data []byte) (*Prompts, error) {
	var raw map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse prompts: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("parse prompts: %w", ErrPromptNotFound)
	}
	return NewPrompts(raw), nil
}

// Get returns the prompt for a channel, falling back to the default entry.
func (p *Prompts) Get(channel string) (string, error) {
	if prompt, ok := p.entries[p.key(channel)]; ok {
		return prompt, nil
	}
	if prompt, ok := p.entries[defaultPromptKey]; ok {
		return prompt, nil
	}
	return "", fmt.Errorf("%w: %s", ErrPromptNotFound, channel)
}

// Digest returns the prompt used for the summary of summaries.
func (p *Prompts) Digest() (string, error) {
	if prompt, ok := p.entries[digestPromptKey]; ok {
		return prompt, nil
	}
	return "", fmt.Errorf("%w: %s", ErrPromptNotFound, digestPromptKey)
}

// isReservedPromptKey reports whether a channel name would share the default or digest prompt entry.
func isReservedPromptKey(name string) bool {
	key := cases.Fold().String(strings.TrimSpace(name))
	return key == defaultPromptKey || key == digestPromptKey
}

func (p *Prompts) key(name string) string {
	return p.fold.String(strings.TrimSpace(name))
}
