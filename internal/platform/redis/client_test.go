// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package redis_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	castlyredis "github.com/taibuivan/castly/internal/platform/redis"
)

/*
TestNewClient connects and pings a live server.
*/
func TestNewClient(t *testing.T) {
	server := miniredis.RunT(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	client, err := castlyredis.NewClient(context.Background(), "redis://"+server.Addr()+"/0", logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	assert.NoError(t, castlyredis.Ping(context.Background(), client))

	// A downed server surfaces on the next ping.
	server.Close()
	assert.Error(t, castlyredis.Ping(context.Background(), client))
}

/*
TestNewClient_InvalidURL rejects malformed URLs before dialing.
*/
func TestNewClient_InvalidURL(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	_, err := castlyredis.NewClient(context.Background(), "http://not-redis", logger)
	assert.ErrorContains(t, err, "invalid URL")
}
