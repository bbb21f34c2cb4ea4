package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryValid(t *testing.T) {
	assert.True(t, CategorySale.Valid())
	assert.True(t, CategoryRental.Valid())
	assert.True(t, CategoryService.Valid())
	assert.False(t, Category("BARTER").Valid())
	assert.False(t, Category("").Valid())
}

func TestCityValid(t *testing.T) {
	assert.True(t, CityYaounde.Valid())
	assert.True(t, CityDouala.Valid())
	assert.True(t, CityDschang.Valid())
	assert.False(t, City("PARIS").Valid())
}

// The API field is named "type" even though the Go field is Category.
func TestAnnounceJSONShape(t *testing.T) {
	a := Announce{ID: 5, Title: "Bike", Category: CategorySale, City: CityDouala,
		Phone: "+237 655 55 55 55", Images: []string{}, OwnerID: 3}

	b, err := json.Marshal(a)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	assert.Equal(t, "SALE", m["type"])
	assert.Equal(t, float64(3), m["ownerId"])
	assert.NotContains(t, m, "price")
	assert.NotContains(t, m, "owner")
}

func TestUserJSONHidesPasswordHash(t *testing.T) {
	u := User{ID: 1, Name: "Alice", Email: "a@x.com", PasswordHash: "secret"}

	b, err := json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "secret")
}
