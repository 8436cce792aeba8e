package enums

import "fmt"

// PartType classifies a catalog product for entitlement and band pricing.
type PartType string

const (
	PartTypeGenuine     PartType = "genuine"
	PartTypeAftermarket PartType = "aftermarket"
	PartTypeBranded     PartType = "branded"
)

var validPartTypes = []PartType{
	PartTypeGenuine,
	PartTypeAftermarket,
	PartTypeBranded,
}

// String implements fmt.Stringer.
func (p PartType) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PartType.
func (p PartType) IsValid() bool {
	for _, candidate := range validPartTypes {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePartType converts raw input into a PartType.
func ParsePartType(value string) (PartType, error) {
	for _, candidate := range validPartTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid part type %q", value)
}
