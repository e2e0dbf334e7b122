package storage

// Storage key names. Each store owns its keys and never reads another
// store's keys.
const (
	KeyWatchlist     = "watchlist_items"
	KeySearchQuery   = "search_last_query"
	KeySearchResults = "search_last_results"
	KeyCart          = "cart_items"
)

// Store is a string-keyed persistence service with JSON-serialized values.
//
// Load decodes the value stored under key into dest and reports whether it
// did so. A missing key or an undecodable value leaves dest untouched and
// returns false; the caller's pre-set default stands. Load never fails
// outward.
//
// Save and Remove swallow persistence errors: the in-memory collection
// remains authoritative for the session even if the write was lost.
type Store interface {
	Load(key string, dest interface{}) bool
	Save(key string, value interface{})
	Remove(key string)
}
