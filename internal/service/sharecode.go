package service

import (
	"crypto/md5"
	"encoding/hex"
	"strconv"
	"strings"
)

// ShareCodeLength is the number of hex characters kept from the digest.
const ShareCodeLength = 8

// SharePrefix marks a /start payload that opens a shared wishlist.
const SharePrefix = "view_"

// ShareCode derives the public share token for a user id.
func ShareCode(userID int64) string {
	sum := md5.Sum([]byte(strconv.FormatInt(userID, 10)))
	return hex.EncodeToString(sum[:])[:ShareCodeLength]
}

// ParseStartPayload extracts a share code from a /start argument.
func ParseStartPayload(arg string) (string, bool) {
	arg = strings.TrimSpace(arg)
	if !strings.HasPrefix(arg, SharePrefix) {
		return "", false
	}
	code := strings.TrimPrefix(arg, SharePrefix)
	if code == "" {
		return "", false
	}
	return code, true
}
