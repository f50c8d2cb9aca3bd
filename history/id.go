package history

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// DateLayout is the human-readable creation date stored on each entry.
const DateLayout = "Jan 2, 2006"

var (
	idMu      sync.Mutex
	idEntropy = ulid.Monotonic(rand.Reader, 0)
)

// NewID returns a ULID for t. IDs issued within the same millisecond still
// sort in issue order.
func NewID(t time.Time) string {
	idMu.Lock()
	defer idMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), idEntropy).String()
}

// FormatDate renders t the way entries display their creation date.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// CreatedAt recovers the creation time encoded in an entry id.
func CreatedAt(id string) (time.Time, bool) {
	u, err := ulid.ParseStrict(id)
	if err != nil {
		return time.Time{}, false
	}
	return ulid.Time(u.Time()), true
}
