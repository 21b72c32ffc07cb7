package creds

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snowflip/cli/internal/errors"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	cases := []struct {
		name     string
		user     string
		password string
	}{
		{"simple", "alice", "s3cr3t!"},
		{"empty password", "alice", ""},
		{"password with separator", "bob", "pa:ss:word"},
		{"unicode", "grüß", "пароль"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ct, key, err := Encrypt(tc.user, tc.password, "")
			require.NoError(t, err)
			require.NotEmpty(t, ct)
			require.NotEmpty(t, key)

			user, password, err := Decrypt(ct, key)
			require.NoError(t, err)
			assert.Equal(t, tc.user, user)
			assert.Equal(t, tc.password, password)
		})
	}
}

func TestEncryptWithSuppliedKey(t *testing.T) {
	key, err := GenerateKey()
	require.NoError(t, err)

	ct, keyOut, err := Encrypt("alice", "pw", key)
	require.NoError(t, err)
	assert.Equal(t, key, keyOut)

	user, password, err := Decrypt(ct, key)
	require.NoError(t, err)
	assert.Equal(t, "alice", user)
	assert.Equal(t, "pw", password)
}

func TestEncryptRejectsSeparatorInUsername(t *testing.T) {
	_, _, err := Encrypt("al:ice", "pw", "")
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.Configuration))
}

func TestDecryptWrongKey(t *testing.T) {
	ct, _, err := Encrypt("alice", "s3cr3t!", "")
	require.NoError(t, err)

	wrong, err := GenerateKey()
	require.NoError(t, err)

	_, _, err = Decrypt(ct, wrong)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.Authentication))
}

func TestDecryptMalformedKey(t *testing.T) {
	ct, _, err := Encrypt("alice", "pw", "")
	require.NoError(t, err)

	_, _, err = Decrypt(ct, "not-a-key")
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.Authentication))
}

func TestDecryptTamperedCiphertext(t *testing.T) {
	ct, key, err := Encrypt("alice", "pw", "")
	require.NoError(t, err)

	// Flip a character somewhere in the middle of the token.
	b := []byte(ct)
	mid := len(b) / 2
	if b[mid] == 'A' {
		b[mid] = 'B'
	} else {
		b[mid] = 'A'
	}

	_, _, err = Decrypt(string(b), key)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.Authentication))
}

func TestGenerateKeyUnique(t *testing.T) {
	k1, err := GenerateKey()
	require.NoError(t, err)
	k2, err := GenerateKey()
	require.NoError(t, err)
	assert.NotEqual(t, k1, k2)
}
