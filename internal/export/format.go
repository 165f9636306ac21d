// Joy - Content Approval and Client Collaboration Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/joy

package export

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/tomtom215/joy/internal/audit"
)

// RowWriter writes records to one output stream.
type RowWriter interface {
	// Open writes any header.
	Open(ctx context.Context) error
	Write(ctx context.Context, rec *audit.Record) error
	// Close flushes buffered output. It does not close the underlying writer.
	Close(ctx context.Context) error
}

// Format describes one export encoding.
type Format interface {
	Name() string
	ContentType() string
	Extension() string
	NewWriter(w io.Writer) RowWriter
}

// Registry maps format names to formats.
type Registry struct {
	mu      sync.RWMutex
	formats map[string]Format
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{formats: map[string]Format{}}
}

// DefaultRegistry returns a registry holding csv, jsonl and cef.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(CSV{})
	r.Register(JSONL{})
	r.Register(CEF{})
	return r
}

// Register adds f, replacing any format with the same name.
func (r *Registry) Register(f Format) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.formats[strings.ToLower(f.Name())] = f
}

// Lookup returns the format called name. Unknown names are a
// *audit.ValidationError.
func (r *Registry) Lookup(name string) (Format, error) {
	r.mu.RLock()
	f, ok := r.formats[strings.ToLower(strings.TrimSpace(name))]
	r.mu.RUnlock()
	if !ok {
		return nil, &audit.ValidationError{
			Field:   "format",
			Message: fmt.Sprintf("unsupported format %q, expected one of: %s", name, strings.Join(r.Names(), ", ")),
		}
	}
	return f, nil
}

// Names returns the registered format names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.formats))
	for n := range r.formats {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
