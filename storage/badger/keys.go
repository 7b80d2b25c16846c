package badger

import (
	"fmt"

	"github.com/VetalKamen/news-scrapper/core"
)

// Key prefixes for different data types
const (
	entryPrefix = "artvec"
)

// makeEntryKey generates a key for a vector entry by its URL-derived ID.
func makeEntryKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", entryPrefix, id))
}
