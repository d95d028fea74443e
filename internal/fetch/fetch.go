// Package fetch holds the shared data-fetching plumbing the views build on:
// a uniform result type that keeps "empty" and "failed" distinguishable, a
// concurrent fan-out for id -> detail lookups, and a token guard that drops
// responses arriving after a newer request was issued.
package fetch

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Result is the state of one fetch. A failed fetch keeps its previous Data
// zero value; callers render Err explicitly instead of showing an empty list.
type Result[T any] struct {
	Data T
	Err  error
}

func Ok[T any](data T) Result[T] { return Result[T]{Data: data} }

func Fail[T any](err error) Result[T] { return Result[T]{Err: err} }

func (r Result[T]) Failed() bool { return r.Err != nil }

// DefaultFanOutLimit bounds concurrent detail fetches in Details.
const DefaultFanOutLimit = 8

// Details performs the "fetch ids, then fetch each detail" fan-out. All
// lookups run concurrently (bounded by limit) and are awaited as a batch.
// Successes are keyed by the fetched item's own id via idOf, never by array
// position, because completion order is not the request order. A failed
// lookup lands in the error map under the requested id and does not abort
// sibling lookups.
func Details[T any](ctx context.Context, ids []string, limit int, lookup func(context.Context, string) (T, error), idOf func(T) string) (map[string]T, map[string]error) {
	if limit <= 0 {
		limit = DefaultFanOutLimit
	}

	var mu sync.Mutex
	out := make(map[string]T, len(ids))
	errs := make(map[string]error)

	g := &errgroup.Group{}
	g.SetLimit(limit)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			item, err := lookup(ctx, id)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs[id] = err
				return nil // isolate: siblings keep going
			}
			key := idOf(item)
			if key == "" {
				key = id
			}
			out[key] = item
			return nil
		})
	}
	_ = g.Wait()
	return out, errs
}

// Guard drops stale responses. A view issues a token per request and commits
// the response only while that token is still the latest; a view switch or a
// newer request invalidates everything in flight.
type Guard struct {
	mu     sync.Mutex
	latest uuid.UUID
}

type Token struct{ id uuid.UUID }

func (g *Guard) Issue() Token {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.latest = uuid.New()
	return Token{id: g.latest}
}

// Current reports whether t is still the latest issued token.
func (g *Guard) Current(t Token) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.latest == t.id && g.latest != uuid.Nil
}

// Invalidate discards all outstanding tokens without issuing a new one.
func (g *Guard) Invalidate() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.latest = uuid.Nil
}
