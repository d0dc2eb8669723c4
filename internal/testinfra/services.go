// Bookrec - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookrec

//go:build integration

package testinfra

import (
	"context"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	// DefaultMongoImage is the MongoDB image used for source integration tests.
	DefaultMongoImage = "mongo:7"

	// DefaultRedisImage is the Redis image used for cache integration tests.
	DefaultRedisImage = "redis:7-alpine"
)

// MongoContainer is a running MongoDB instance.
type MongoContainer struct {
	testcontainers.Container
	URI string
}

// NewMongoContainer starts MongoDB. The caller must Terminate it.
func NewMongoContainer(ctx context.Context, opts ...Option) (*MongoContainer, error) {
	c, addr, err := startService(ctx, DefaultMongoImage, "27017/tcp",
		wait.ForLog("Waiting for connections"), opts)
	if err != nil {
		return nil, err
	}
	return &MongoContainer{Container: c, URI: "mongodb://" + addr}, nil
}

// RedisContainer is a running Redis instance.
type RedisContainer struct {
	testcontainers.Container
	Addr string
}

// NewRedisContainer starts Redis. The caller must Terminate it.
func NewRedisContainer(ctx context.Context, opts ...Option) (*RedisContainer, error) {
	c, addr, err := startService(ctx, DefaultRedisImage, "6379/tcp",
		wait.ForLog("Ready to accept connections"), opts)
	if err != nil {
		return nil, err
	}
	return &RedisContainer{Container: c, Addr: addr}, nil
}
