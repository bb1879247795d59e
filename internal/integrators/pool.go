package integrators

import (
	"sync"

	"github.com/san-kum/gravsim/internal/vmath"
)

// workspace is a set of scratch buffers scoped to one step call.
type workspace struct {
	bufs [][]vmath.Vector
}

var workspaces = sync.Pool{
	New: func() interface{} {
		return &workspace{}
	},
}

// acquire returns count zeroed buffers of length n.
func acquire(n, count int) *workspace {
	w := workspaces.Get().(*workspace)
	for len(w.bufs) < count {
		w.bufs = append(w.bufs, nil)
	}
	w.bufs = w.bufs[:count]
	for i := range w.bufs {
		if cap(w.bufs[i]) < n {
			w.bufs[i] = make([]vmath.Vector, n)
			continue
		}
		w.bufs[i] = w.bufs[i][:n]
		vmath.Zero(w.bufs[i])
	}
	return w
}

func release(w *workspace) {
	workspaces.Put(w)
}
