package asset

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// LoadAll loads every visual concurrently and joins before returning: nothing
// downstream starts until all assets are ready. The first failure cancels the
// remaining loads and surfaces as a LoadError (or DecodeError) naming the
// asset; no partially loaded set is ever returned.
func LoadAll(ctx context.Context, specs []Spec, fps int) ([]Visual, error) {
	g, ctx := errgroup.WithContext(ctx)

	visuals := make([]Visual, len(specs))
	for i, sp := range specs {
		i, sp := i, sp
		g.Go(func() error {
			v, err := load(ctx, sp, fps)
			if err != nil {
				if _, ok := err.(*DecodeError); ok {
					return err
				}
				return &LoadError{Asset: sp.Name, Err: err}
			}
			visuals[i] = v
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		for _, v := range visuals {
			if v != nil {
				v.Close()
			}
		}
		return nil, err
	}
	return visuals, nil
}

func load(ctx context.Context, sp Spec, fps int) (Visual, error) {
	switch sp.Kind {
	case KindClip:
		return LoadClip(ctx, sp.Name, sp.Path, fps)
	default:
		return LoadStill(sp.Name, sp.Path)
	}
}

// CloseAll releases every visual in the set.
func CloseAll(visuals []Visual) {
	for _, v := range visuals {
		v.Close()
	}
}
