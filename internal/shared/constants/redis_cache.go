package constants

import (
	"fmt"
	"time"
)

// Redis cache keys and TTLs.
// Pattern: busline:{module}:{operation}:{identifier}

const CACHE_PREFIX = "busline"

// Seat availability is the only hot read path; everything else is served
// from Postgres directly.
const (
	TTL_SEATS_LIST  = 30 * time.Second // full seat map for a schedule
	TTL_SEATS_COUNT = 30 * time.Second // available-seat counter
)

const (
	CACHE_KEY_SEATS_LIST  = CACHE_PREFIX + ":seats:list:schedule:"  // + schedule-id
	CACHE_KEY_SEATS_COUNT = CACHE_PREFIX + ":seats:count:schedule:" // + schedule-id
)

// BuildSeatListKey returns the cache key for a schedule's seat map.
func BuildSeatListKey(scheduleID string) string {
	return fmt.Sprintf("%s%s", CACHE_KEY_SEATS_LIST, scheduleID)
}

// BuildSeatCountKey returns the cache key for a schedule's available count.
func BuildSeatCountKey(scheduleID string) string {
	return fmt.Sprintf("%s%s", CACHE_KEY_SEATS_COUNT, scheduleID)
}

// SeatKeysPattern matches every seat cache entry for a schedule, used for
// invalidation after a mutation.
func SeatKeysPattern(scheduleID string) string {
	return fmt.Sprintf("%s:seats:*:schedule:%s", CACHE_PREFIX, scheduleID)
}
