// Copyright (c) 2025 Snowflip
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package creds encrypts and decrypts Snowflake credential pairs as Fernet tokens.
// A bundle is the pair (ciphertext, key), both urlsafe base64 text, suitable for
// out-of-band storage; nothing in this package touches disk or network.
//
// The token payload is "user:password". Decryption splits on the first colon only,
// so passwords may contain colons; usernames may not, and Encrypt rejects them.
package creds

import (
	"strings"
	"time"

	"github.com/fernet/fernet-go"

	"snowflip/cli/internal/errors"
)

// Separator joins user and password inside the encrypted payload.
const Separator = ":"

// GenerateKey returns a fresh urlsafe-base64 Fernet key from cryptographically
// secure randomness.
func GenerateKey() (string, error) {
	var k fernet.Key
	if err := k.Generate(); err != nil {
		return "", errors.Wrap(errors.Authentication, "generate encryption key", err)
	}
	return k.Encode(), nil
}

// Encrypt seals user and password into a Fernet token. When key is empty a new
// key is generated. Returns the text-encoded ciphertext and the key that sealed it.
func Encrypt(user, password, key string) (ciphertext, keyOut string, err error) {
	if strings.Contains(user, Separator) {
		return "", "", errors.Newf(errors.Configuration,
			"username must not contain %q", Separator)
	}
	if key == "" {
		key, err = GenerateKey()
		if err != nil {
			return "", "", err
		}
	}
	k, err := fernet.DecodeKey(key)
	if err != nil {
		return "", "", errors.Wrap(errors.Authentication, "invalid encryption key", err)
	}
	tok, err := fernet.EncryptAndSign([]byte(user+Separator+password), k)
	if err != nil {
		return "", "", errors.Wrap(errors.Authentication, "encrypt credentials", err)
	}
	return string(tok), key, nil
}

// Decrypt verifies the token and recovers the credential pair. A malformed key,
// a tampered or foreign token, or a payload without the separator all fail with
// an authentication error; Decrypt never returns partial credentials.
func Decrypt(ciphertext, key string) (user, password string, err error) {
	k, err := fernet.DecodeKey(key)
	if err != nil {
		return "", "", errors.Wrap(errors.Authentication, "invalid encryption key", err)
	}
	// TTL 0 disables expiry: bundles are long-lived by design.
	plain := fernet.VerifyAndDecrypt([]byte(ciphertext), 0*time.Second, []*fernet.Key{k})
	if plain == nil {
		return "", "", errors.New(errors.Authentication,
			"failed to decrypt credentials: invalid token or wrong key")
	}
	user, password, ok := strings.Cut(string(plain), Separator)
	if !ok {
		return "", "", errors.New(errors.Authentication,
			"invalid encrypted credentials format")
	}
	return user, password, nil
}
