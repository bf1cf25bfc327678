package cache

// linkState tracks an entry's membership in the recency list.
type linkState uint8

const (
	// stateNew: allocated and indexed, not yet spliced into the list.
	stateNew linkState = iota
	// stateLinked: a current member of the recency list.
	stateLinked
	// stateDeleted: detached from index and list. A deleted entry is
	// never relinked or reindexed; a later lookup for the same key
	// allocates a fresh entry.
	stateDeleted
)

// entry is an intrusive doubly linked list element storing one cached
// key/value pairing. The key index and the recency list reference the
// same entry: link fields and state are guarded by the owning cache's
// structural mutex, while the value cell carries its own independent
// synchronization.
type entry[K comparable, V any] struct {
	key K

	// Intrusive list links: lessRecent points toward the LRU end of the
	// list, moreRecent toward the MRU end.
	lessRecent *entry[K, V]
	moreRecent *entry[K, V]
	state      linkState

	cell valueCell[V]
}

func newEntry[K comparable, V any](key K) *entry[K, V] {
	return &entry[K, V]{key: key}
}
