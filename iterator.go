package qnet

import "sync"

var iterPool = make(map[int]map[int]*sync.Pool)
var iterPoolLock sync.Mutex

// MakeIterator returns a 2D view over a flat m x n frame. The rows alias the
// frame; writes through the iterator write into the frame. Return it with
// ReturnIterator when done.
func MakeIterator(frame []float32, m, n int) (retVal [][]float32) {
	retVal = borrowIterator(m, n)
	for i := range retVal {
		retVal[i] = frame[i*n : (i+1)*n]
	}
	return retVal
}

// ReturnIterator returns an iterator to the pool.
func ReturnIterator(m, n int, it [][]float32) {
	iterPoolLock.Lock()
	defer iterPoolLock.Unlock()
	if _, ok := iterPool[m]; !ok {
		iterPool[m] = make(map[int]*sync.Pool)
	}
	if _, ok := iterPool[m][n]; !ok {
		iterPool[m][n] = &sync.Pool{
			New: func() interface{} { return make([][]float32, m) },
		}
	}
	for i := range it {
		it[i] = nil
	}
	iterPool[m][n].Put(it)
}

func borrowIterator(m, n int) [][]float32 {
	iterPoolLock.Lock()
	defer iterPoolLock.Unlock()
	if d, ok := iterPool[m]; ok {
		if d2, ok := d[n]; ok {
			return d2.Get().([][]float32)
		}
	}
	return make([][]float32, m)
}
