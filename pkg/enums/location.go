package enums

import "fmt"

// Location is the physical site an employee account is scoped to.
type Location string

const (
	LocationMill      Location = "Mill"
	LocationGodown    Location = "Godown"
	LocationUniversal Location = "Universal"
)

// DefaultLineLocation is applied to order lines submitted without a location.
const DefaultLineLocation = LocationGodown

var validLocations = []Location{
	LocationMill,
	LocationGodown,
	LocationUniversal,
}

// String implements fmt.Stringer.
func (l Location) String() string {
	return string(l)
}

// IsValid reports whether the value is a known Location.
func (l Location) IsValid() bool {
	for _, candidate := range validLocations {
		if candidate == l {
			return true
		}
	}
	return false
}

// IsUniversal reports whether the location grants visibility across every site.
func (l Location) IsUniversal() bool {
	return l == LocationUniversal
}

// ParseLocation converts raw input into a Location.
func ParseLocation(value string) (Location, error) {
	for _, candidate := range validLocations {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid location %q", value)
}
