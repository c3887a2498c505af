package booking

import (
	"crypto/rand"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const idAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewConfirmationID returns "TI-<base36 millisecond timestamp>-<10 random
// characters>". Concurrent callers need no coordination: the suffix space is
// 36^10 per millisecond, and the bookings table's unique key settles the
// remaining astronomically unlikely tie.
func NewConfirmationID() string {
	ts := strings.ToUpper(strconv.FormatInt(time.Now().UnixMilli(), 36))
	buf := make([]byte, 10)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("TI-%s-%010d", ts, time.Now().UnixNano()%10_000_000_000)
	}
	suffix := make([]byte, len(buf))
	for i, b := range buf {
		suffix[i] = idAlphabet[int(b)%len(idAlphabet)]
	}
	return fmt.Sprintf("TI-%s-%s", ts, suffix)
}
