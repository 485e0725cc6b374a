package testutil

import "testing"

// RedisEnv names the variable holding the host:port of the test Redis.
const RedisEnv = "TEST_REDIS_ADDR"

// RedisAddr returns the test Redis address, skipping the test when unset.
// Tests should use a key prefix of their own; the instance may be shared.
func RedisAddr(t *testing.T) string {
	t.Helper()
	return requireEnv(t, RedisEnv)
}
