package validation

import (
	"encoding/json"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Email  string   `json:"email" validate:"required,email"`
	Amount int64    `json:"amount" validate:"gt=0"`
	Kind   string   `json:"kind" validate:"oneof=booked enrolled"`
	IDs    []string `json:"ids" validate:"min=1"`
}

func TestToDetailsValidationErrors(t *testing.T) {
	v := validator.New()
	err := v.Struct(sample{Email: "not-an-email", Amount: -1, Kind: "wishlist"})
	require.Error(t, err)

	details := ToDetails(err)
	assert.Equal(t, "must be a valid email", details["Email"])
	assert.Equal(t, "must be greater than 0", details["Amount"])
	assert.Equal(t, "must be one of: booked, enrolled", details["Kind"])
	assert.Equal(t, "must be at least 1 characters long", details["IDs"])
}

func TestToDetailsRequired(t *testing.T) {
	v := validator.New()
	err := v.Struct(sample{Amount: 1, Kind: "booked", IDs: []string{"c1"}})
	require.Error(t, err)

	details := ToDetails(err)
	assert.Equal(t, "is required", details["Email"])
}

func TestToDetailsJSONErrors(t *testing.T) {
	var target sample
	err := json.Unmarshal([]byte(`{"email":`), &target)
	require.Error(t, err)
	assert.Equal(t, map[string]string{"payload": "invalid json"}, ToDetails(err))

	err = json.Unmarshal([]byte(`{"amount":"ten"}`), &target)
	require.Error(t, err)
	assert.Equal(t, map[string]string{"payload": "invalid json"}, ToDetails(err))
}

func TestToDetailsNilAndUnknown(t *testing.T) {
	assert.Nil(t, ToDetails(nil))
	assert.Equal(t, map[string]string{"payload": "invalid payload"}, ToDetails(assertableErr{}))
}

type assertableErr struct{}

func (assertableErr) Error() string { return "boom" }
