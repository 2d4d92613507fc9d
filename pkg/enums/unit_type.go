package enums

import "fmt"

// UnitType classifies an item as consumed-on-use or a durable asset.
type UnitType string

const (
	UnitTypeConsumable UnitType = "consumable"
	UnitTypeAsset      UnitType = "asset"
)

var validUnitTypes = []UnitType{
	UnitTypeConsumable,
	UnitTypeAsset,
}

func (u UnitType) String() string {
	return string(u)
}

func (u UnitType) IsValid() bool {
	for _, candidate := range validUnitTypes {
		if candidate == u {
			return true
		}
	}
	return false
}

// ParseUnitType converts raw input into a UnitType.
func ParseUnitType(value string) (UnitType, error) {
	for _, candidate := range validUnitTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid unit type %q", value)
}
