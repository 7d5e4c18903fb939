package httpapi

import (
	"github.com/tinoosan/minledger/internal/storage/breaker"
	"github.com/tinoosan/minledger/internal/storage/memory"
	"github.com/tinoosan/minledger/internal/storage/postgres"
	"github.com/tinoosan/minledger/internal/storage/redis"
)

// Compile-time interface assertions for every store backend against the HTTP API interfaces.
var (
	_ Store        = (*memory.Store)(nil)
	_ Store        = (*postgres.Store)(nil)
	_ Store        = (*redis.Store)(nil)
	_ Store        = (*breaker.Store)(nil)
	_ ReadyChecker = (*postgres.Store)(nil)
	_ ReadyChecker = (*redis.Store)(nil)
	_ ReadyChecker = (*breaker.Store)(nil)
)
