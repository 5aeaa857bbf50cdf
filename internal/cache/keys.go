package cache

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/samber/lo"
)

// Key layout. Everything scoped to a user lives under UserPrefix so a single
// Invalidate after a bookmark write clears lists, tag filters and searches.
//
//	user:<id>:list:<page>:<size>
//	user:<id>:tags:<fingerprint>
//	user:<id>:search:<fingerprint>
//	share:<id>            share:<id>:<snapshot>
//	ratelimit:<scope>:<subject>

// UserPrefix is the invalidation prefix for everything cached for a user.
func UserPrefix(userID string) string {
	return "user:" + userID + ":"
}

// ListKey identifies one page of a user's default bookmark list.
func ListKey(userID string, page, size int) string {
	return UserPrefix(userID) + "list:" + strconv.Itoa(page) + ":" + strconv.Itoa(size)
}

// ListPrefix matches every cached page of a user's default list.
func ListPrefix(userID string) string {
	return UserPrefix(userID) + "list:"
}

// TagFilterKey identifies a tag-filtered list. Tag order and case do not matter.
func TagFilterKey(userID string, tags ...string) string {
	normalized := lo.Uniq(lo.FilterMap(tags, func(t string, _ int) (string, bool) {
		t = strings.ToLower(strings.TrimSpace(t))
		return t, t != ""
	}))
	sort.Strings(normalized)
	return UserPrefix(userID) + "tags:" + fingerprint(strings.Join(normalized, ","))
}

// SearchKey identifies a search result set. Whitespace and case in the query
// are normalised before hashing.
func SearchKey(userID, query string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(query)), " ")
	return UserPrefix(userID) + "search:" + fingerprint(normalized)
}

// ShareKey identifies a public share.
func ShareKey(shareID string) string {
	return "share:" + shareID
}

// ShareSnapshotPrefix matches the snapshots cached under a public share.
func ShareSnapshotPrefix(shareID string) string {
	return ShareKey(shareID) + ":"
}

// RateLimitKey identifies a rate limit bucket.
func RateLimitKey(scope, subject string) string {
	return "ratelimit:" + scope + ":" + subject
}

func fingerprint(s string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(s))
}
