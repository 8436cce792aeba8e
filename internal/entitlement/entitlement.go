package entitlement

import "github.com/partshub/partshub-backend/pkg/enums"

// CanView reports whether a dealer with the given entitlement may see and buy
// parts of the given classification. Unknown values deny: an entitlement typo
// in imported dealer data must never widen what a dealer can purchase.
func CanView(ent enums.DealerEntitlement, partType enums.PartType) bool {
	if !partType.IsValid() {
		return false
	}
	switch ent {
	case enums.EntitlementGenuineOnly:
		return partType == enums.PartTypeGenuine
	case enums.EntitlementAftermarketOnly:
		return partType != enums.PartTypeGenuine
	case enums.EntitlementShowAll:
		return true
	default:
		return false
	}
}
