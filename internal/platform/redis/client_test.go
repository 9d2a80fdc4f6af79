// Copyright (c) 2026 Cursus. All rights reserved.
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

	cursusredis "github.com/taibuivan/cursus/internal/platform/redis"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

/*
TestNewClient verifies the client connects, selects the URL database and
reports a lost server through Ping.
*/
func TestNewClient(t *testing.T) {
	server := miniredis.RunT(t)

	client, err := cursusredis.NewClient(context.Background(), "redis://"+server.Addr()+"/2", quiet)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.Set(context.Background(), "probe", "1", 0).Err())
	assert.True(t, server.DB(2).Exists("probe"))

	server.Close()
	assert.Error(t, cursusredis.Ping(context.Background(), client))
}

func TestNewClient_Errors(t *testing.T) {
	_, err := cursusredis.NewClient(context.Background(), "://nope", quiet)
	assert.Error(t, err)

	server := miniredis.RunT(t)
	addr := server.Addr()
	server.Close()

	_, err = cursusredis.NewClient(context.Background(), "redis://"+addr, quiet)
	assert.Error(t, err)
}
