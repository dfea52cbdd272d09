package display

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductRefUnmarshalBareID(t *testing.T) {
	var item OrderItem
	require.NoError(t, json.Unmarshal([]byte(`{"productId":"P1","quantity":2}`), &item))
	assert.Equal(t, "P1", item.Product.Key())
	assert.Empty(t, item.Product.Name())
}

func TestProductRefUnmarshalPopulated(t *testing.T) {
	var item OrderItem
	raw := `{"productId":{"_id":"P1","name":"Keyboard","image":"kb.png"},"quantity":1}`
	require.NoError(t, json.Unmarshal([]byte(raw), &item))
	assert.Equal(t, "P1", item.Product.Key())
	assert.Equal(t, "Keyboard", item.Product.Name())
	assert.Equal(t, "kb.png", item.Product.Image())
}

func TestProductRefUnmarshalMalformed(t *testing.T) {
	var item OrderItem
	// A number is neither representation; the ref degrades to zero instead of
	// failing the document.
	require.NoError(t, json.Unmarshal([]byte(`{"productId":42}`), &item))
	assert.True(t, item.Product.IsZero())

	require.NoError(t, json.Unmarshal([]byte(`{"productId":null}`), &item))
	assert.True(t, item.Product.IsZero())
}

func TestProductRefMarshalRoundTrip(t *testing.T) {
	bare, err := json.Marshal(RefID("P1"))
	require.NoError(t, err)
	assert.JSONEq(t, `"P1"`, string(bare))

	populated, err := json.Marshal(RefPopulated(ProductInfo{ID: "P1", Name: "Keyboard"}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"_id":"P1","name":"Keyboard","image":""}`, string(populated))
}
