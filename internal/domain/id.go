package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// recordNamespace scopes forecast record IDs so they cannot collide with other
// name-based UUIDs derived from the same spot|hour string.
var recordNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("surf-forecast-service/forecast-record"))

// RecordID derives a deterministic ID for a (spot, hour) forecast. The time is
// truncated to the hour in UTC so minute jitter upstream maps to one record.
func RecordID(spot string, t time.Time) string {
	key := strings.ToLower(spot) + "|" + t.UTC().Truncate(time.Hour).Format(time.RFC3339)
	return uuid.NewSHA1(recordNamespace, []byte(key)).String()
}
