// Package vehicle maps free-form vehicle names to the fixed set of canonical
// classes used for matching deals with transporters. Transporter profiles
// carry whatever the driver typed at registration; deals carry a canonical
// class. Matching compares canonical classes only.
package vehicle

import "strings"

// Class is a canonical vehicle class.
type Class string

// Canonical classes. The matching pool compares these values, never the raw
// profile strings.
const (
	BikeDelivery     Class = "Bike Delivery"
	ThreeWheelerAuto Class = "3-Wheeler Auto"
	FourWheelerTruck Class = "4-Wheeler Truck"
	MiniVan          Class = "Mini Van"
	HeavyTruck       Class = "Heavy Truck"
)

// synonyms maps each canonical class to the names accepted for it.
// Matching is case-insensitive and substring-based in either direction, so
// "TATA mini truck 4 wheeler" resolves to FourWheelerTruck and "bike" to
// BikeDelivery.
var synonyms = map[Class][]string{
	BikeDelivery:     {"bike", "motorcycle", "scooter", "two wheeler", "2-wheeler", "2 wheeler"},
	ThreeWheelerAuto: {"auto", "three wheeler", "3-wheeler", "3 wheeler", "tempo", "rickshaw"},
	FourWheelerTruck: {"truck", "lorry", "four wheeler", "4-wheeler", "4 wheeler", "pickup"},
	MiniVan:          {"van", "minivan", "mini van"},
	HeavyTruck:       {"heavy truck", "container", "trailer", "10 wheeler", "multi axle"},
}

// classOrder fixes the lookup order so overlapping synonyms resolve
// deterministically (e.g. "heavy truck" before the generic "truck").
var classOrder = []Class{HeavyTruck, FourWheelerTruck, MiniVan, ThreeWheelerAuto, BikeDelivery}

// Normalize resolves a raw vehicle name to its canonical class.
//
// The name is matched case-insensitively, exact matches first: a name equal
// to a class name or to one of its synonyms wins before any substring logic
// runs, so "truck" is FourWheelerTruck even though "heavy truck" contains it.
// Failing that, a name matches a class when it contains one of the class
// synonyms or a synonym contains it. Unmatched names pass through unchanged:
// an unknown vehicle type still forms a class of its own, it just only
// matches itself.
func Normalize(rawName string) Class {
	needle := strings.ToLower(strings.TrimSpace(rawName))
	if needle == "" {
		return Class(rawName)
	}

	for _, class := range classOrder {
		if strings.EqualFold(string(class), needle) {
			return class
		}
		for _, synonym := range synonyms[class] {
			if synonym == needle {
				return class
			}
		}
	}

	for _, class := range classOrder {
		for _, synonym := range synonyms[class] {
			if strings.Contains(needle, synonym) || strings.Contains(synonym, needle) {
				return class
			}
		}
	}

	return Class(rawName)
}

// Matches reports whether two raw vehicle names resolve to the same
// canonical class.
func Matches(a, b string) bool {
	return Normalize(a) == Normalize(b)
}

// String implements fmt.Stringer.
func (c Class) String() string {
	return string(c)
}
