package domain

import (
	"encoding/base64"
	"strconv"
)

// DefaultPageSize is the page size used when none is requested.
const DefaultPageSize = 50

// MaxPageSize is the largest page a caller may request.
const MaxPageSize = 500

// PageRequest holds pagination parameters for list operations. PageToken is
// an opaque base64-encoded offset.
type PageRequest struct {
	PageSize  int
	PageToken string
}

// Offset decodes the page token. Empty or malformed tokens decode to 0.
func (p PageRequest) Offset() int {
	if p.PageToken == "" {
		return 0
	}
	decoded, err := base64.StdEncoding.DecodeString(p.PageToken)
	if err != nil {
		return 0
	}
	offset, err := strconv.Atoi(string(decoded))
	if err != nil || offset < 0 {
		return 0
	}
	return offset
}

// Limit returns the effective page size, clamped to [1, MaxPageSize].
func (p PageRequest) Limit() int {
	if p.PageSize <= 0 {
		return DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		return MaxPageSize
	}
	return p.PageSize
}

// NextPageToken returns the token for the page after offset+limit, or the
// empty string when no rows remain.
func NextPageToken(offset, limit int, total int64) string {
	next := offset + limit
	if int64(next) >= total {
		return ""
	}
	return base64.StdEncoding.EncodeToString([]byte(strconv.Itoa(next)))
}
