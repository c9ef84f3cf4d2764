package shortcode

import (
	"context"

	"github.com/blink-dev/blink/internal/apperr"
)

// maxAttempts bounds the collision-retry loop. Five misses in a row means the
// id space or this bound needs tuning, which is a server fault, never a
// client one.
const maxAttempts = 5

type CodeGenerator interface {
	Generate() (string, error)
}

// LookupFunc reports whether a candidate code is already taken.
type LookupFunc func(ctx context.Context, code string) (bool, error)

// Allocator hands out codes that are unused across all workspaces at the
// moment of the lookup. The database unique index stays the last line of
// defense against two concurrent allocations of the same candidate.
type Allocator struct {
	gen   CodeGenerator
	taken LookupFunc
}

func NewAllocator(gen CodeGenerator, taken LookupFunc) *Allocator {
	return &Allocator{gen: gen, taken: taken}
}

// AllocateUnused returns the first generated candidate not present among
// existing blinks, retrying up to maxAttempts before giving up with
// REDIRECT_ID_GENERATION_EXHAUSTED.
func (a *Allocator) AllocateUnused(ctx context.Context) (string, error) {
	for i := 0; i < maxAttempts; i++ {
		code, err := a.gen.Generate()

		if err != nil {
			return "", err
		}

		used, err := a.taken(ctx, code)

		if err != nil {
			return "", err
		}

		if !used {
			return code, nil
		}
	}

	return "", apperr.New(apperr.CodeRedirectIDExhausted, "could not allocate an unused redirect code")
}
