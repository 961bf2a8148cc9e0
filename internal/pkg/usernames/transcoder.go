package usernames

import (
	"encoding/base32"
	"strings"
)

// The chat backend only accepts a restricted charset for usernames, so
// display names are carried base32-encoded with an "enc." prefix. The base32
// padding character is not allowed either and is swapped for a dot.
const (
	encodingPrefix     = "enc."
	paddingChar        = "="
	paddingReplacement = "."
)

// Encode encodes the given username unless it is already encoded.
func Encode(username string) string {
	if strings.HasPrefix(username, encodingPrefix) {
		return username
	}
	encoded := base32.StdEncoding.EncodeToString([]byte(username))
	return encodingPrefix + strings.ReplaceAll(encoded, paddingChar, paddingReplacement)
}

// Decode decodes the given username unless it is already decoded.
func Decode(username string) string {
	if !strings.HasPrefix(username, encodingPrefix) {
		return username
	}
	raw := strings.TrimPrefix(username, encodingPrefix)
	raw = strings.ReplaceAll(strings.ToUpper(raw), paddingReplacement, paddingChar)
	decoded, err := base32.StdEncoding.DecodeString(raw)
	if err != nil {
		return username
	}
	return string(decoded)
}

// Match reports whether two usernames refer to the same account regardless of
// their encoding state.
func Match(a, b string) bool {
	return Decode(a) == Decode(b)
}
