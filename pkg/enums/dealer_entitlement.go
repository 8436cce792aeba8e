package enums

import "fmt"

// DealerEntitlement is the dealer-level policy controlling which part
// classifications the dealer may view and purchase.
type DealerEntitlement string

const (
	EntitlementGenuineOnly     DealerEntitlement = "genuine_only"
	EntitlementAftermarketOnly DealerEntitlement = "aftermarket_only"
	EntitlementShowAll         DealerEntitlement = "show_all"
)

var validDealerEntitlements = []DealerEntitlement{
	EntitlementGenuineOnly,
	EntitlementAftermarketOnly,
	EntitlementShowAll,
}

// String implements fmt.Stringer.
func (e DealerEntitlement) String() string {
	return string(e)
}

// IsValid reports whether the value is a known DealerEntitlement.
func (e DealerEntitlement) IsValid() bool {
	for _, candidate := range validDealerEntitlements {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseDealerEntitlement converts raw input into a DealerEntitlement.
func ParseDealerEntitlement(value string) (DealerEntitlement, error) {
	for _, candidate := range validDealerEntitlements {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid dealer entitlement %q", value)
}
