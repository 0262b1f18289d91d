package auth

import (
	"golang.org/x/crypto/argon2"
)

// Argon2id parameters used to stretch the shared secret into a signing key.
const (
	Memory      = 64 * 1024 // 64 MB
	Iterations  = 3
	Parallelism = 2
	KeyLength   = 32
)

// SecretEnv is inherited by sidecars started by the pilot.
const SecretEnv = "SIDECAR_SECRET"

// The pilot and its sidecars must derive the same key, so the salt is fixed.
var keySalt = []byte("vision-pilot/sidecar-token/v1")

// DeriveKey validates secret and turns it into an HS256 key.
func DeriveKey(secret string) ([]byte, error) {
	if err := ValidateSecret(secret); err != nil {
		return nil, err
	}
	return argon2.IDKey([]byte(secret), keySalt, Iterations, Memory, Parallelism, KeyLength), nil
}
