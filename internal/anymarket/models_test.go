package anymarket

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVariationSetDecodesNestedList(t *testing.T) {
	var sku Sku
	require.NoError(t, json.Unmarshal([]byte(`{
		"partnerId": "CAM-M",
		"variations": [
			{"type": {"id": 1, "name": "Tamanho"}, "description": "M"},
			{"type": {"id": 2, "name": "Cor"}, "description": "Azul"}
		]
	}`), &sku))

	assert.Equal(t, map[string]string{"Tamanho": "M", "Cor": "Azul"}, sku.Variations.Values())
}

func TestVariationSetDecodesFlatMap(t *testing.T) {
	var sku Sku
	require.NoError(t, json.Unmarshal([]byte(`{"variations": {"Cor": "Azul"}}`), &sku))

	assert.Equal(t, map[string]string{"Cor": "Azul"}, sku.Variations.Values())
}

func TestVariationSetNestedRoundTrip(t *testing.T) {
	payload := []byte(`[{"type":{"id":1,"name":"Cor"},"description":"Azul"}]`)

	var set VariationSet
	require.NoError(t, json.Unmarshal(payload, &set))

	// untouched sets marshal back in the nested shape they arrived in
	out, err := json.Marshal(set)
	require.NoError(t, err)
	assert.JSONEq(t, string(payload), string(out))

	// flattened sets marshal in the create-API shape
	out, err = json.Marshal(set.Flatten())
	require.NoError(t, err)
	assert.JSONEq(t, `{"Cor":"Azul"}`, string(out))
}

func TestVariationSetFlattenSkipsUnnamedTypes(t *testing.T) {
	set := &VariationSet{raw: []RawVariation{
		{Type: VariationType{Name: ""}, Description: "orphan"},
		{Type: VariationType{Name: "Cor"}, Description: "Azul"},
	}}

	assert.Equal(t, map[string]string{"Cor": "Azul"}, set.Flatten().Values())
}

func TestVariationSetFlattenNil(t *testing.T) {
	var set *VariationSet
	assert.Nil(t, set.Flatten())
	assert.Nil(t, set.Values())
}

func TestProductHasVariationsAlwaysMarshaled(t *testing.T) {
	out, err := json.Marshal(Product{Type: ProductKit})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"hasVariations":false`)
}
