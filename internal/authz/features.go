// Package authz holds the static role/feature permission matrix.
package authz

// Role enumerates the account roles known to the system.
type Role string

const (
	RoleAdmin       Role = "ADMIN"
	RoleDistributor Role = "DISTRIBUTOR"
)

// Valid reports whether the role is one of the known variants.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleDistributor:
		return true
	default:
		return false
	}
}

// Feature names a capability gated by role membership.
type Feature string

const (
	FeatureManageProducts Feature = "manageProducts"
)

// featureMatrix is fixed at process start and never mutated.
var featureMatrix = map[Feature][]Role{
	FeatureManageProducts: {RoleAdmin},
}

// HasFeature reports whether the role may use the feature. An empty
// or unknown role never qualifies.
func HasFeature(role Role, feature Feature) bool {
	for _, allowed := range featureMatrix[feature] {
		if role == allowed {
			return true
		}
	}
	return false
}
