package bookingcode

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"

	"tourbook/metrics"
)

// MintAttempts bounds the reservation loop. With a healthy prefix the chance
// of 50 consecutive collisions is negligible; hitting the bound means the
// allocator state is badly skewed and the fallback path takes over.
const MintAttempts = 50

// FallbackPrefix marks synthetic codes issued after exhausting MintAttempts.
// The allocator never puts a digit in a prefix, so fallback codes cannot
// collide with allocated ones.
const FallbackPrefix = "ZZZ9"

// fallbackSpace is the sequence range of fallback codes, 0000 through 9999.
const fallbackSpace = 10000

// PrefixAllocator tracks the rolling active prefix in the shared store.
type PrefixAllocator interface {
	Active(ctx context.Context) (string, error)
	// Advance moves the active prefix past from. It is a no-op when another
	// request advanced first; either way it returns the now-active prefix.
	Advance(ctx context.Context, from string) (string, error)
	MarkMinted(ctx context.Context, prefix string) error
	IsFull(ctx context.Context, prefix string) (bool, error)
}

// CodeReserver claims a candidate code. The claim must be atomic: a reserve
// that reports true guarantees no other caller got the same code.
type CodeReserver interface {
	Reserve(ctx context.Context, code string) (bool, error)
}

type Generator struct {
	prefixes PrefixAllocator
	codes    CodeReserver

	now     func() time.Time
	randInt func(n int) int
}

func NewGenerator(prefixes PrefixAllocator, codes CodeReserver) *Generator {
	return &Generator{
		prefixes: prefixes,
		codes:    codes,
		now:      time.Now,
		randInt:  rand.Intn,
	}
}

// Mint returns a globally unique booking code. Candidate codes are drawn
// uniformly from the active prefix range and claimed with an atomic reserve;
// a collision just means another draw. A full prefix is advanced before
// drawing. Store failures propagate: continuing with stale allocator state
// risks collisions.
func (g *Generator) Mint(ctx context.Context) (string, error) {
	for attempt := 0; attempt < MintAttempts; attempt++ {
		metrics.CodeMintAttempts.Inc()

		prefix, err := g.prefixes.Active(ctx)
		if err != nil {
			return "", fmt.Errorf("could not get active prefix: %w", err)
		}

		full, err := g.prefixes.IsFull(ctx, prefix)
		if err != nil {
			return "", fmt.Errorf("could not check prefix %s: %w", prefix, err)
		}
		if full {
			prefix, err = g.prefixes.Advance(ctx, prefix)
			if err != nil {
				return "", fmt.Errorf("could not advance prefix: %w", err)
			}
		}

		sequence := SequenceMin + g.randInt(PrefixCapacity)
		code := Format(prefix, sequence)

		reserved, err := g.codes.Reserve(ctx, code)
		if err != nil {
			return "", fmt.Errorf("could not reserve code %s: %w", code, err)
		}
		if !reserved {
			continue
		}

		if err := g.prefixes.MarkMinted(ctx, prefix); err != nil {
			// The code is already reserved and safe to use; only the
			// fullness counter is behind by one.
			log.FromContext(ctx).
				WithError(err).
				WithField("prefix", prefix).
				Warn("could not record minted code against prefix")
		}
		return code, nil
	}

	// Fallback codes are reserved like regular ones: two requests exhausting
	// their attempts in the same second must not share a code, so a taken
	// sequence moves to the next one.
	seed := int(g.now().Unix())
	for i := 0; i < fallbackSpace; i++ {
		code := Format(FallbackPrefix, (seed+i)%fallbackSpace)
		reserved, err := g.codes.Reserve(ctx, code)
		if err != nil {
			return "", fmt.Errorf("could not reserve code %s: %w", code, err)
		}
		if !reserved {
			continue
		}
		metrics.CodeMintFallbacks.Inc()
		log.FromContext(ctx).
			WithField("code", code).
			WithField("attempts", MintAttempts).
			Error("booking code allocation exhausted, issuing synthetic fallback code")
		return code, nil
	}

	return "", fmt.Errorf("booking code space exhausted after %d attempts", MintAttempts)
}
