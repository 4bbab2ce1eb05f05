package player

import "fmt"

// Location is the screen the player is on.
type Location int

const (
	WorldMap Location = iota
	Battle
	Shop
	Skills
	Inventory
	Raids
	PrestigeHall

	// LocationCount is the number of locations.
	LocationCount
)

var locationNames = [LocationCount]string{"world-map", "battle", "shop", "skills", "inventory", "raids", "prestige"}

func (l Location) String() string {
	if l < 0 || int(l) >= len(locationNames) {
		return fmt.Sprintf("location(%d)", int(l))
	}
	return locationNames[l]
}

// ParseLocation converts a location name like "battle" to a Location.
func ParseLocation(s string) (Location, error) {
	for i, name := range locationNames {
		if name == s {
			return Location(i), nil
		}
	}
	return WorldMap, fmt.Errorf("unknown location %q", s)
}

func (l Location) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *Location) UnmarshalText(b []byte) error {
	parsed, err := ParseLocation(string(b))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// Locations lists every location in map order.
func Locations() []Location {
	out := make([]Location, len(locationNames))
	for i := range out {
		out[i] = Location(i)
	}
	return out
}
