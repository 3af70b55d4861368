package pagination

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
)

const offsetField = "offset"

// EncodeOffsetToken creates an opaque token that resumes a list at offset.
func EncodeOffsetToken(offset int) string {
	return EncodeMultiFieldToken(offsetField, strconv.Itoa(offset))
}

// DecodeOffsetToken parses a token produced by EncodeOffsetToken.
func DecodeOffsetToken(token string) (int, error) {
	parts, err := DecodeMultiFieldToken(token)
	if err != nil {
		return 0, err
	}
	if len(parts) != 2 || parts[0] != offsetField {
		return 0, fmt.Errorf("invalid pagination token format (split)")
	}
	offset, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid pagination token format (offset parse): %w", err)
	}
	if offset < 0 {
		return 0, fmt.Errorf("invalid pagination token format (negative offset)")
	}
	return offset, nil
}

// NextToken returns the token for the page after one that started at offset and returned n items.
// It is empty when the page was unbounded or short, since there is nothing left to fetch.
func NextToken(offset, limit, n int) string {
	if limit <= 0 || n < limit {
		return ""
	}
	if offset < 0 {
		offset = 0
	}
	return EncodeOffsetToken(offset + n)
}

// EncodeMultiFieldToken creates a token with any number of string fields
func EncodeMultiFieldToken(fields ...string) string {
	tokenStr := strings.Join(fields, "|")
	return base64.StdEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeMultiFieldToken decodes a token into its component fields
func DecodeMultiFieldToken(token string) ([]string, error) {
	decodedBytes, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}

	tokenStr := string(decodedBytes)
	parts := strings.Split(tokenStr, "|")
	return parts, nil
}
