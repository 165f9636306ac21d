// Joy - Content Approval and Client Collaboration Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/joy

// Package cache is a small thread-safe TTL cache for computed read models,
// such as audit reports, that are expensive to build and may be slightly
// stale.
//
//	c := cache.New(30 * time.Second)
//	key := cache.GenerateKey("report", map[string]any{"days": 30})
//	if v, ok := c.Get(key); ok {
//	    return v.(*report.Report), nil
//	}
//
// Expired entries are dropped on access and by Sweep. There is no background
// goroutine, so a Cache needs no Close.
package cache
