package regnum

import (
	"regexp"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var numberShape = regexp.MustCompile(`^REG-[0-9A-Z]+$`)

func TestNext_Shape(t *testing.T) {
	fixed := time.UnixMilli(1_700_000_000_000)
	g := NewGeneratorWithClock(func() time.Time { return fixed })

	n := g.Next()

	assert.Regexp(t, numberShape, n)
	ts := strings.ToUpper(strconv.FormatInt(fixed.UnixMilli(), 36))
	assert.True(t, strings.HasPrefix(n, Prefix+ts), "number %s should start with timestamp code %s", n, ts)
	assert.Len(t, n, len(Prefix)+len(ts)+seqWidth+randomWidth)
}

func TestNext_SameMillisecondIncrementsSequence(t *testing.T) {
	fixed := time.UnixMilli(1_700_000_000_000)
	g := NewGeneratorWithClock(func() time.Time { return fixed })

	a, b := g.Next(), g.Next()
	ts := strings.ToUpper(strconv.FormatInt(fixed.UnixMilli(), 36))

	assert.Equal(t, "000", a[len(Prefix)+len(ts):len(Prefix)+len(ts)+seqWidth])
	assert.Equal(t, "001", b[len(Prefix)+len(ts):len(Prefix)+len(ts)+seqWidth])
}

func TestNext_ClockStepsBack(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_500)
	g := NewGeneratorWithClock(func() time.Time { return now })
	first := g.Next()

	now = now.Add(-time.Second)
	second := g.Next()

	assert.NotEqual(t, first, second)
	assert.Equal(t, first[:len(first)-randomWidth-seqWidth], second[:len(second)-randomWidth-seqWidth])
}

// Concurrent callers pinned to one millisecond must still get distinct numbers.
func TestNext_ConcurrentUnique(t *testing.T) {
	fixed := time.UnixMilli(1_700_000_000_000)
	g := NewGeneratorWithClock(func() time.Time { return fixed })

	const workers, perWorker = 50, 200
	var (
		mu   sync.Mutex
		seen = make(map[string]struct{}, workers*perWorker)
		wg   sync.WaitGroup
	)

	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			local := make([]string, 0, perWorker)
			for i := 0; i < perWorker; i++ {
				local = append(local, g.Next())
			}
			mu.Lock()
			for _, n := range local {
				seen[n] = struct{}{}
			}
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, seen, workers*perWorker)
}

func TestNext_RealClockUnique(t *testing.T) {
	g := NewGenerator()
	seen := map[string]bool{}
	for i := 0; i < 5000; i++ {
		n := g.Next()
		require.False(t, seen[n], "duplicate registration number %s", n)
		seen[n] = true
	}
}

func TestNewID(t *testing.T) {
	id := NewID()
	_, err := uuid.Parse(id)
	assert.NoError(t, err)
	assert.NotEqual(t, id, NewID())
}
