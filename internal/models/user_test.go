package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserUpdateApply(t *testing.T) {
	assert.True(t, UserUpdate{}.IsEmpty())

	city := "Pune"
	user := UserUpdate{City: &city}.Apply(User{Name: "Asha", City: "Mumbai"})
	assert.Equal(t, "Pune", user.City)
	assert.Equal(t, "Asha", user.Name)
}

func TestPasswordHashNeverSerialized(t *testing.T) {
	out, err := json.Marshal(User{ID: "u-1", PasswordHash: "$2a$10$secret"})
	require.NoError(t, err)
	assert.NotContains(t, string(out), "secret")

	session := User{ID: "u-1", Email: "a@x.com", Address: "12 Lane"}.Session()
	out, err = json.Marshal(session)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "address")
}
