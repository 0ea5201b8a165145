package pkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	passwordHash, err := HashPassword("sr")
	require.NoError(t, err)
	assert.NotEmpty(t, passwordHash)
	assert.True(t, CheckPasswordHash("sr", "$2a$14$z8cd4yJpzP40Qh2F2BhiMO.sOm4YAIaf30pmUKLOaISojD9HnXgaG"))
	assert.True(t, CheckPasswordHash("sr", passwordHash))

	passwordHash, err = HashPassword("todo")
	require.NoError(t, err)
	assert.NotEmpty(t, passwordHash)
	assert.True(t, CheckPasswordHash("todo", "$2a$14$H5aVoE1YSTxBF63MLgBfo.u0W7vNcx5JQb7LUix.DicQv3WESnYuq"))
}

func TestValidPassword(t *testing.T) {
	cases := []struct {
		password string
		valid    bool
	}{
		{password: "Str0ng!pass", valid: true},
		{password: "An0ther$One", valid: true},
		{password: "short1!A", valid: true},
		{password: "sh0rt!A", valid: false},
		{password: "alllowercase1!", valid: false},
		{password: "ALLUPPERCASE1!", valid: false},
		{password: "NoDigitsHere!", valid: false},
		{password: "NoSpecials123", valid: false},
		{password: "", valid: false},
	}

	for _, tc := range cases {
		assert.Equalf(t, tc.valid, ValidPassword(tc.password), "password: %s", tc.password)
	}
}
