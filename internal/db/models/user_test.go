package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestVerifyPassword(t *testing.T) {
	argonHash, err := HashPassword("hunter2")
	require.NoError(t, err)

	bcryptHash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)

	testCases := []struct {
		name        string
		hash        string
		password    string
		expected    bool
		needsRehash bool
	}{
		{name: "argon2id match", hash: argonHash, password: "hunter2", expected: true},
		{name: "argon2id mismatch", hash: argonHash, password: "hunter3"},
		{name: "bcrypt match", hash: string(bcryptHash), password: "hunter2", expected: true, needsRehash: true},
		{name: "bcrypt mismatch", hash: string(bcryptHash), password: "nope", needsRehash: true},
		{name: "garbage hash", hash: "plain", password: "plain"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			u := &User{Password: tc.hash}
			assert.Equal(t, tc.expected, u.VerifyPassword(tc.password))
			assert.Equal(t, tc.needsRehash, u.NeedsRehash())
		})
	}
}

func TestUserJSONOmitsPassword(t *testing.T) {
	u := User{Name: "A", Email: "a@x.com", Password: "secret-hash", Role: RoleAdmin}

	b, err := json.Marshal(u)
	require.NoError(t, err)

	assert.NotContains(t, string(b), "secret-hash")
	assert.NotContains(t, string(b), "password")
	assert.Contains(t, string(b), `"role":"admin"`)
	assert.True(t, u.IsAdmin())
}

func TestValidID(t *testing.T) {
	assert.True(t, ValidID("0b0e7ad8-6d3c-4a4f-9bb2-7e1c1f4d2a10"))
	assert.False(t, ValidID("0b0e7ad86d3c4a4f9bb27e1c1f4d2a10"))
	assert.False(t, ValidID("123"))
	assert.False(t, ValidID(""))
}
