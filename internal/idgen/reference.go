package idgen

import (
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"strings"
)

// NewReference produces a URL-safe transaction reference. The snowflake
// component is monotonic per node; the random suffix covers multi-node
// clock overlap. The store's unique index on reference is the final
// guard against collisions.
func NewReference() string {
	var b [4]byte
	_, _ = rand.Read(b[:])
	var sb strings.Builder
	sb.WriteString("TX")
	sb.WriteString(strings.ToUpper(strconv.FormatUint(New(), 36)))
	sb.WriteString(strings.ToUpper(hex.EncodeToString(b[:])))
	return sb.String()
}
