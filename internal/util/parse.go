package util

import "strconv"

// ParseInt parses a string to an integer, returning defaultValue if parsing fails
func ParseInt(s string, defaultValue int) int {
	if val, err := strconv.Atoi(s); err == nil {
		return val
	}
	return defaultValue
}

// ParsePagination reads limit/offset query values and clamps them to sane
// bounds. maxLimit guards the capped library queries.
func ParsePagination(limitStr, offsetStr string, defaultLimit, maxLimit int) (int, int) {
	limit := ParseInt(limitStr, defaultLimit)
	offset := ParseInt(offsetStr, 0)

	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
