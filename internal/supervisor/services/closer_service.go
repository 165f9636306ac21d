// Joy - Content Approval and Client Collaboration Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/joy

package services

import (
	"context"
	"fmt"
	"io"

	"github.com/tomtom215/joy/internal/logging"
)

// CloserService owns an io.Closer for the lifetime of the tree. It does no
// work of its own; stopping the service closes the resource.
type CloserService struct {
	closer io.Closer
	name   string
}

// NewCloserService returns a service that closes c when stopped.
func NewCloserService(name string, c io.Closer) *CloserService {
	return &CloserService{closer: c, name: name}
}

// Serve implements suture.Service.
func (s *CloserService) Serve(ctx context.Context) error {
	<-ctx.Done()
	if err := s.closer.Close(); err != nil {
		logging.Warn().Err(err).Str("service", s.name).Msg("Close failed during shutdown")
		return fmt.Errorf("%s close: %w", s.name, err)
	}
	logging.Info().Str("service", s.name).Msg("Closed")
	return ctx.Err()
}

// String implements fmt.Stringer.
func (s *CloserService) String() string {
	return s.name
}
