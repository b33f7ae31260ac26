package app

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// load is one named read run by loadBoth.
type load[T any] struct {
	name string
	fn   func(context.Context) (T, error)
}

// loadBoth runs two independent reads on an errgroup and returns both
// values. The first failure cancels the other read and is returned
// prefixed with the failing read's name.
func loadBoth[A, B any](ctx context.Context, a load[A], b load[B]) (A, B, error) {
	var (
		va A
		vb B
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		if va, err = a.fn(gctx); err != nil {
			return fmt.Errorf("loading %s: %w", a.name, err)
		}

		return nil
	})

	g.Go(func() (err error) {
		if vb, err = b.fn(gctx); err != nil {
			return fmt.Errorf("loading %s: %w", b.name, err)
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		var (
			zeroA A
			zeroB B
		)

		return zeroA, zeroB, err
	}

	return va, vb, nil
}
