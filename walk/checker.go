package walk

import (
	"cayc/depm"
	"cayc/report"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Check type checks every class in the registry and returns all the errors it
// finds in class declaration order.  If parallel is set, classes are checked
// concurrently: each class gets its own walker and the registry is only read.
// The returned error is non-nil only if the checker itself failed.
func Check(reg *depm.TypeRegistry, parallel bool) ([]*report.CompileError, error) {
	classes := reg.Classes()
	results := make([][]*report.CompileError, len(classes))

	g := &errgroup.Group{}
	if parallel {
		g.SetLimit(runtime.NumCPU())
	} else {
		g.SetLimit(1)
	}

	for i, class := range classes {
		g.Go(func() (err error) {
			defer report.CatchErrors(&err)

			w := NewWalker(reg, class)
			w.WalkClass()
			results[i] = w.Errors()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var errs []*report.CompileError
	for _, classErrs := range results {
		errs = append(errs, classErrs...)
	}

	return errs, nil
}
