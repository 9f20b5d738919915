package models

// BulkPolicy is the consistency policy a bulk operation runs under. It is a
// property of the entity kind, not of the individual call, so the choice is
// visible and testable in one place.
type BulkPolicy string

const (
	// BulkPolicyAtomic runs the whole batch in one unit of work; the first
	// failure aborts every item.
	BulkPolicyAtomic BulkPolicy = "atomic"
	// BulkPolicyBestEffort inserts items independently; failed items are
	// collected and reported while the rest commit.
	BulkPolicyBestEffort BulkPolicy = "best_effort"
)

var bulkPolicies = map[EntityKind]BulkPolicy{
	EntityKindShow:    BulkPolicyAtomic,
	EntityKindSeason:  BulkPolicyAtomic,
	EntityKindEpisode: BulkPolicyAtomic,
	EntityKindMovie:   BulkPolicyBestEffort,
}

// BulkPolicyFor returns the bulk consistency policy for an entity kind.
// Hierarchical entities are batch-atomic; flat entities are best-effort.
func BulkPolicyFor(kind EntityKind) BulkPolicy {
	if policy, ok := bulkPolicies[kind]; ok {
		return policy
	}
	return BulkPolicyAtomic
}
