package audio

import (
	"fmt"
	"sync/atomic"
)

// nameCounter is process-wide state: initialized once, never reset, and
// monotonically increasing so that every generated provisional name within
// one process is distinct. Names are only a correlation key until the
// daemon assigns an ID; uniqueness across processes is not guaranteed.
var nameCounter atomic.Uint64

// nextProvisionalName returns a fresh provisional name. Safe for concurrent
// builders.
func nextProvisionalName() string {
	return fmt.Sprintf("go_audio_%d", nameCounter.Add(1)-1)
}
