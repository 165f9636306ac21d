// Joy - Content Approval and Client Collaboration Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/joy

package report

import (
	"sort"
	"strings"
	"sync"
)

// SubjectRegistry maps subject type discriminators to display names.
type SubjectRegistry struct {
	mu    sync.RWMutex
	names map[string]string
}

// NewSubjectRegistry returns a registry preloaded with Joy's tracked models.
func NewSubjectRegistry() *SubjectRegistry {
	r := &SubjectRegistry{names: map[string]string{}}
	for _, m := range []struct{ typ, name string }{
		{"User", "User"},
		{"Workspace", "Workspace"},
		{"Client", "Client"},
		{"ContentItem", "Content Item"},
		{"Calendar", "Calendar"},
		{"MagicLink", "Magic Link"},
		{"Comment", "Comment"},
		{"TrelloSyncFailure", "Trello Sync Failure"},
	} {
		r.names[m.typ] = m.name
	}
	return r
}

// Register sets the display name for subjectType.
func (r *SubjectRegistry) Register(subjectType, displayName string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.names[subjectType] = displayName
}

// Name returns the display name for subjectType. Unregistered types are
// shown by their last namespace segment, so "App\Models\Invoice" reads
// "Invoice".
func (r *SubjectRegistry) Name(subjectType string) string {
	r.mu.RLock()
	name, ok := r.names[subjectType]
	r.mu.RUnlock()
	if ok {
		return name
	}

	short := subjectType
	if i := strings.LastIndexAny(short, `\/.`); i >= 0 {
		short = short[i+1:]
	}
	r.mu.RLock()
	name, ok = r.names[short]
	r.mu.RUnlock()
	if ok {
		return name
	}
	return short
}

// Types returns the registered discriminators in sorted order.
func (r *SubjectRegistry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.names))
	for t := range r.names {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
