package auth

import (
	"context"
	"time"
)

// TokenCredentials attaches a fresh token to every outgoing sidecar call.
// It implements credentials.PerRPCCredentials.
type TokenCredentials struct {
	key    []byte
	caller string
	ttl    time.Duration
}

func NewTokenCredentials(key []byte, caller string, ttl time.Duration) *TokenCredentials {
	return &TokenCredentials{key: key, caller: caller, ttl: ttl}
}

func (c *TokenCredentials) GetRequestMetadata(_ context.Context, _ ...string) (map[string]string, error) {
	token, err := GenerateToken(c.key, c.caller, c.ttl)
	if err != nil {
		return nil, err
	}
	return map[string]string{"authorization": "Bearer " + token}, nil
}

// RequireTransportSecurity is false: sidecars only listen on loopback.
func (c *TokenCredentials) RequireTransportSecurity() bool {
	return false
}
