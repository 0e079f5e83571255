package vehicle_test

import (
	"testing"

	"dispatch/internal/core/domain/model/vehicle"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		raw  string
		want vehicle.Class
	}{
		{"bike", vehicle.BikeDelivery},
		{"Motorcycle", vehicle.BikeDelivery},
		{"two wheeler delivery", vehicle.BikeDelivery},
		{"TATA pickup 4 wheeler", vehicle.FourWheelerTruck},
		{"Lorry", vehicle.FourWheelerTruck},
		{"truck", vehicle.FourWheelerTruck},
		{"TRUCK", vehicle.FourWheelerTruck},
		{"heavy truck", vehicle.HeavyTruck},
		{"4-Wheeler Truck", vehicle.FourWheelerTruck},
		{"heavy truck with trailer", vehicle.HeavyTruck},
		{"container", vehicle.HeavyTruck},
		{"auto rickshaw", vehicle.ThreeWheelerAuto},
		{"Tempo", vehicle.ThreeWheelerAuto},
		{"mini van", vehicle.MiniVan},
		{"Van", vehicle.MiniVan},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, vehicle.Normalize(tt.raw))
		})
	}
}

func TestNormalize_UnknownPassesThrough(t *testing.T) {
	// Unmatched names survive unchanged and only match themselves.
	assert.Equal(t, vehicle.Class("hovercraft"), vehicle.Normalize("hovercraft"))
	assert.Equal(t, vehicle.Class(""), vehicle.Normalize(""))
}

func TestNormalize_SubstringBothDirections(t *testing.T) {
	// The raw name may contain a synonym or be contained in one.
	assert.Equal(t, vehicle.BikeDelivery, vehicle.Normalize("bik")) // "bik" ⊂ "bike"
	assert.Equal(t, vehicle.MiniVan, vehicle.Normalize("company minivan fleet"))
}

func TestNormalize_ExactSynonymBeatsSubstring(t *testing.T) {
	// "truck" is itself a synonym; it must resolve to its own class even
	// though the longer "heavy truck" synonym contains it.
	assert.Equal(t, vehicle.FourWheelerTruck, vehicle.Normalize("truck"))
	assert.Equal(t, vehicle.HeavyTruck, vehicle.Normalize("heavy truck"))
	assert.Equal(t, vehicle.HeavyTruck, vehicle.Normalize("container"))
	assert.True(t, vehicle.Matches("truck", "Lorry"))
	assert.False(t, vehicle.Matches("truck", "heavy truck"))
}

func TestMatches(t *testing.T) {
	assert.True(t, vehicle.Matches("bike", "Motorcycle"))
	assert.True(t, vehicle.Matches("truck", "Lorry"))
	assert.False(t, vehicle.Matches("bike", "truck"))
	assert.False(t, vehicle.Matches("hovercraft", "truck"))
}
