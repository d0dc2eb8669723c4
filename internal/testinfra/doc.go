// Bookrec - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookrec

//go:build integration

// Package testinfra starts throwaway MongoDB and Redis containers for
// integration tests. Everything here is compiled only with the integration
// build tag:
//
//	go test -tags integration ./...
//
// Tests call SkipIfNoDocker first so the suite degrades gracefully on
// machines without a Docker daemon.
package testinfra
