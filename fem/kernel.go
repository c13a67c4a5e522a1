// Copyright 2016 The Geofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package fem implements the element kernel engine: per-element gather,
// quadrature-point physics kernels and the scatter into the global system
package fem

import (
	"runtime"
	"sync"

	"github.com/cpmech/gosl/chk"
)

// Stack is the opaque per-element scratch of one kernel specialization.
// Each worker owns one stack; the engine never inspects its layout.
type Stack interface{}

// Kernel defines one physics specialization run by the engine. The driver
// calls Setup, then QuadPointKernel for every quadrature point, then
// Complete, for each element. Implementations must be safe for concurrent
// calls on distinct stacks.
type Kernel interface {

	// NumElements returns the number of elements this kernel covers
	NumElements() int

	// NumQuadPoints returns the number of quadrature points of element e
	NumQuadPoints(e int) int

	// NewStack allocates the per-worker scratch
	NewStack() Stack

	// Setup gathers node coordinates, primary variables and DOF maps of
	// element e into the stack. No side effects outside the stack.
	Setup(e int, s Stack) error

	// QuadPointKernel accumulates the contribution of quadrature point q
	// into the stack's local residual and Jacobian blocks
	QuadPointKernel(e, q int, s Stack) error

	// Complete scatters the owned rows of the stack into the global system
	// and returns a scalar diagnostic (max absolute residual contribution).
	// Ghost elements scatter nothing and return 0.
	Complete(e int, s Stack) (diag float64, err error)
}

// Result holds the outcome of one kernel launch
type Result struct {
	MaxDiag   float64 // max-reduction of the per-element diagnostics
	NumFailed int     // number of elements whose kernel failed
	Failed    bool    // NumFailed > 0
	FirstErr  error   // first failure encountered (by worker order)
}

// KernelLaunch runs a kernel over all its elements with a pool of nworkers
// goroutines (nworkers < 1 means one per CPU). Elements are distributed in
// strides; each element is processed by exactly one worker. Kernel failures
// never panic across the pool: they are counted per element and aggregated
// into the result.
func KernelLaunch(k Kernel, nworkers int) (res Result) {
	n := k.NumElements()
	if n == 0 {
		return
	}
	if nworkers < 1 {
		nworkers = runtime.NumCPU()
	}
	if nworkers > n {
		nworkers = n
	}
	var mu sync.Mutex
	var wg sync.WaitGroup
	for w := 0; w < nworkers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			stack := k.NewStack()
			maxdiag := 0.0
			nfailed := 0
			var firstErr error
			for e := w; e < n; e += nworkers {
				diag, err := runElement(k, e, stack)
				if err != nil {
					nfailed++
					if firstErr == nil {
						firstErr = err
					}
					continue
				}
				if diag > maxdiag {
					maxdiag = diag
				}
			}
			mu.Lock()
			if maxdiag > res.MaxDiag {
				res.MaxDiag = maxdiag
			}
			res.NumFailed += nfailed
			if res.FirstErr == nil {
				res.FirstErr = firstErr
			}
			mu.Unlock()
		}(w)
	}
	wg.Wait()
	res.Failed = res.NumFailed > 0
	return
}

// runElement drives one element through setup, quadrature loop and scatter.
// Quadrature points of one element run sequentially: they accumulate into
// the same stack.
func runElement(k Kernel, e int, stack Stack) (diag float64, err error) {
	if err = k.Setup(e, stack); err != nil {
		return 0, chk.Err("element %d: setup failed:\n%v", e, err)
	}
	nq := k.NumQuadPoints(e)
	for q := 0; q < nq; q++ {
		if err = k.QuadPointKernel(e, q, stack); err != nil {
			return 0, chk.Err("element %d: quadrature point %d failed:\n%v", e, q, err)
		}
	}
	diag, err = k.Complete(e, stack)
	if err != nil {
		return 0, chk.Err("element %d: scatter failed:\n%v", e, err)
	}
	return
}
