package pool

import (
	"math/bits"
	"sync"
)

const (
	minClassShift = 10 // 1 KiB
	maxClassShift = 24 // 16 MiB
	numClasses    = maxClassShift - minClassShift + 1
)

var classes [numClasses]sync.Pool

func init() {
	for i := range classes {
		size := 1 << (minClassShift + i)
		classes[i].New = func() any {
			b := make([]byte, size)
			return &b
		}
	}
}

// classOf returns the index of the smallest class holding n bytes, or -1 when
// n exceeds the largest class.
func classOf(n int) int {
	if n <= 1<<minClassShift {
		return 0
	}
	shift := bits.Len(uint(n - 1))
	if shift > maxClassShift {
		return -1
	}
	return shift - minClassShift
}

// Get returns a buffer of length n. Its capacity is rounded up to a power of
// two between 1 KiB and 16 MiB. Larger buffers are allocated directly and are
// not retained by Put.
func Get(n int) *[]byte {
	if n < 0 {
		n = 0
	}
	c := classOf(n)
	if c < 0 {
		b := make([]byte, n)
		return &b
	}
	bp := classes[c].Get().(*[]byte)
	*bp = (*bp)[:n]
	return bp
}

// Put returns a buffer obtained from Get. Buffers whose capacity is not an
// exact class size are dropped.
func Put(bp *[]byte) {
	if bp == nil {
		return
	}
	size := cap(*bp)
	c := classOf(size)
	if c < 0 || size != 1<<(minClassShift+c) {
		return
	}
	*bp = (*bp)[:size]
	classes[c].Put(bp)
}
