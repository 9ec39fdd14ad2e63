package data

import (
	"math/rand/v2"
	"strconv"
	"strings"
	"time"
)

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewID generates a client-side unique id: the current unix-millis in
// base 36 followed by a random base-36 suffix. Not a collision-free UUID;
// two clients generating in the same millisecond could theoretically
// collide, which the single-user deployment accepts.
func NewID() string {
	var sb strings.Builder
	sb.WriteString(strconv.FormatInt(time.Now().UnixMilli(), 36))
	for i := 0; i < 11; i++ {
		sb.WriteByte(base36[rand.IntN(len(base36))])
	}
	return sb.String()
}
