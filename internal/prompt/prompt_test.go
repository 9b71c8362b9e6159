package prompt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anymarket-cloner/internal/anymarket"
	"anymarket-cloner/internal/cloner"
)

func TestCollectAssignments(t *testing.T) {
	in := strings.NewReader("NEW-P\n111\nNEW-M\n222\n")
	var out bytes.Buffer

	skus := []anymarket.Sku{
		{PartnerID: "CAM-P", Variations: anymarket.NewFlatVariations(map[string]string{"Tamanho": "P"})},
		{PartnerID: "CAM-M", Variations: anymarket.NewFlatVariations(map[string]string{"Tamanho": "M"})},
	}

	assignments, err := New(in, &out).CollectAssignments(skus)

	require.NoError(t, err)
	assert.Equal(t, []cloner.SkuAssignment{
		{PartnerID: "NEW-P", EAN: "111"},
		{PartnerID: "NEW-M", EAN: "222"},
	}, assignments)
	assert.Contains(t, out.String(), "2 variation(s)")
	assert.Contains(t, out.String(), "Tamanho=P")
}

func TestCollectAssignmentsTruncatedInput(t *testing.T) {
	in := strings.NewReader("NEW-P\n")
	var out bytes.Buffer

	_, err := New(in, &out).CollectAssignments([]anymarket.Sku{{}, {}})

	assert.Error(t, err)
}

func TestReadLineTrims(t *testing.T) {
	in := strings.NewReader("  value \n")
	var out bytes.Buffer

	value, err := New(in, &out).ReadLine("Label")

	require.NoError(t, err)
	assert.Equal(t, "value", value)
	assert.Contains(t, out.String(), "Label: ")
}
