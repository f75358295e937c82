// Package relations attaches referenced entities to the entities that point at
// them. Resolution never mutates its input: every result is a fresh copy.
package relations

import "context"

// Link describes a many-to-one reference from S to R.
type Link[S, R any] struct {
	// ForeignKey reads the reference from the source. Empty means no reference.
	ForeignKey func(S) string
	// TargetKey reads the key a target is matched by.
	TargetKey func(R) string
	// Attach returns a copy of the source carrying the target.
	// A missing target is attached as the zero value.
	Attach func(S, R) S
}

// Lookup fetches one target. It returns the zero value when nothing matches.
type Lookup[R any] func(ctx context.Context, key string) (R, error)

// BatchLookup fetches the targets of several keys in one round trip.
// Targets for missing keys are simply absent from the result.
type BatchLookup[R any] func(ctx context.Context, keys []string) ([]R, error)

// ResolveOne attaches the target of src. An empty foreign key performs no read.
func ResolveOne[S, R any](ctx context.Context, src S, link Link[S, R], lookup Lookup[R]) (S, error) {
	var target R
	key := link.ForeignKey(src)
	if key != "" {
		found, err := lookup(ctx, key)
		if err != nil {
			var zero S
			return zero, err
		}
		target = found
	}
	return link.Attach(src, target), nil
}

// ResolveMany attaches targets to every source with a single batch lookup over
// the distinct non-empty foreign keys. Dangling keys attach the zero value and
// no keys at all means no read.
func ResolveMany[S, R any](ctx context.Context, srcs []S, link Link[S, R], batch BatchLookup[R]) ([]S, error) {
	out := make([]S, len(srcs))
	if len(srcs) == 0 {
		return out, nil
	}

	keys := distinctKeys(srcs, link.ForeignKey)
	byKey := make(map[string]R, len(keys))
	if len(keys) > 0 {
		targets, err := batch(ctx, keys)
		if err != nil {
			return nil, err
		}
		for _, t := range targets {
			k := link.TargetKey(t)
			if _, dup := byKey[k]; !dup {
				byKey[k] = t
			}
		}
	}

	for i, s := range srcs {
		out[i] = link.Attach(s, byKey[link.ForeignKey(s)])
	}
	return out, nil
}

// Group indexes values by key, preserving input order inside each group.
func Group[V any](values []V, key func(V) string) map[string][]V {
	groups := make(map[string][]V)
	for _, v := range values {
		k := key(v)
		groups[k] = append(groups[k], v)
	}
	return groups
}

func distinctKeys[S any](srcs []S, key func(S) string) []string {
	seen := make(map[string]struct{}, len(srcs))
	keys := make([]string, 0, len(srcs))
	for _, s := range srcs {
		k := key(s)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	return keys
}
