// Package regnum generates registration identifiers and attendee-facing
// registration numbers.
//
// A registration number has the shape REG-<code> where code is the uppercased
// base36 millisecond timestamp followed by a three character in-process
// sequence and a three character random suffix. Within one process two calls
// never return the same number unless more than 46656 numbers are requested in
// the same millisecond; across processes the random suffix and the unique index
// on registrations.registration_number cover the rest.
package regnum

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	Prefix = "REG-"

	seqWidth    = 3
	randomWidth = 3
	maxSeq      = 36 * 36 * 36
	alphabet    = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// NewID returns a new registration identifier.
func NewID() string {
	return uuid.NewString()
}

// Generator produces registration numbers. It is safe for concurrent use.
type Generator struct {
	mu     sync.Mutex
	now    func() time.Time
	lastMs int64
	seq    int
}

func NewGenerator() *Generator {
	return &Generator{now: time.Now}
}

// NewGeneratorWithClock is used by tests to pin the timestamp part.
func NewGeneratorWithClock(now func() time.Time) *Generator {
	return &Generator{now: now}
}

// Next returns a new registration number.
func (g *Generator) Next() string {
	g.mu.Lock()
	ms := g.now().UnixMilli()
	if ms <= g.lastMs {
		// Same millisecond or the wall clock stepped back: keep counting
		// under the last timestamp we handed out.
		ms = g.lastMs
		g.seq++
		if g.seq >= maxSeq {
			ms++
			g.seq = 0
		}
	} else {
		g.seq = 0
	}
	g.lastMs = ms
	seq := g.seq
	g.mu.Unlock()

	var b strings.Builder
	b.WriteString(Prefix)
	b.WriteString(strings.ToUpper(strconv.FormatInt(ms, 36)))
	b.WriteString(pad36(seq, seqWidth))
	b.WriteString(randomSuffix(randomWidth))
	return b.String()
}

func pad36(n, width int) string {
	s := strings.ToUpper(strconv.FormatInt(int64(n), 36))
	if len(s) < width {
		s = strings.Repeat("0", width-len(s)) + s
	}
	return s
}

func randomSuffix(n int) string {
	out := make([]byte, n)
	limit := big.NewInt(int64(len(alphabet)))
	for i := range out {
		v, err := rand.Int(rand.Reader, limit)
		if err != nil {
			out[i] = alphabet[time.Now().UnixNano()%int64(len(alphabet))]
			continue
		}
		out[i] = alphabet[v.Int64()]
	}
	return string(out)
}
