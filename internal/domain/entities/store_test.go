package entities

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Validate(t *testing.T) {
	valid := Store{ID: "s1", PostalCode: "01001000", Location: Location{Latitude: -23.55, Longitude: -46.63}}
	assert.NoError(t, valid.Validate())

	badLat := valid
	badLat.Location.Latitude = 91
	assert.Error(t, badLat.Validate())

	badLng := valid
	badLng.Location.Longitude = -180.5
	assert.Error(t, badLng.Validate())

	badCEP := valid
	badCEP.PostalCode = "01001-000"
	assert.Error(t, badCEP.Validate())

	nanLat := valid
	nanLat.Location.Latitude = math.NaN()
	assert.Error(t, nanLat.Validate())

	infLng := valid
	infLng.Location.Longitude = math.Inf(-1)
	assert.Error(t, infLng.Validate())
}

func TestStore_FulfillmentDays(t *testing.T) {
	assert.Equal(t, 1, (&Store{}).FulfillmentDays())
	assert.Equal(t, 3, (&Store{LocalFulfillmentDays: 3}).FulfillmentDays())
}

func TestNormalizePostalCode(t *testing.T) {
	assert.Equal(t, "01001000", NormalizePostalCode("01001-000"))
	assert.Equal(t, "01001000", NormalizePostalCode(" 01.001-000 "))
	assert.True(t, IsValidPostalCode("01001000"))
	assert.False(t, IsValidPostalCode("0100100"))
	assert.False(t, IsValidPostalCode("0100100a"))
}

func TestParseStoreKind(t *testing.T) {
	kind, err := ParseStoreKind("pdv")
	require.NoError(t, err)
	assert.Equal(t, StoreKindPDV, kind)

	kind, err = ParseStoreKind(" LOJA ")
	require.NoError(t, err)
	assert.Equal(t, StoreKindLoja, kind)

	_, err = ParseStoreKind("kiosk")
	assert.Error(t, err)
}

func TestAddress_GeocodeQuery(t *testing.T) {
	withStreet := Address{Street: "Praça da Sé", City: "São Paulo", State: "SP"}
	assert.Equal(t, "Praça da Sé, São Paulo, Brasil", withStreet.GeocodeQuery())

	cityWide := Address{City: "Rio Branco", State: "AC"}
	assert.Equal(t, "Rio Branco, AC, Brasil", cityWide.GeocodeQuery())
}

func TestBusinessDays(t *testing.T) {
	assert.Equal(t, "1 dia útil", BusinessDays(0))
	assert.Equal(t, "1 dia útil", BusinessDays(1))
	assert.Equal(t, "4 dias úteis", BusinessDays(4))
}
