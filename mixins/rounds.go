// Package mixins factors the parameter handling every scheme in the
// catalogue repeats by hand today (clamp rounds, validate bounds, draw a
// salt from an alphabet) into reusable helpers, so new schemes (and the
// Context engine's calibration) share one implementation of each concern
// instead of each scheme re-deriving it, per spec.md 4.2's rounds-handling
// and salt-generation skeletons.
package mixins

import (
	"crypto/rand"
	"math/big"
	"strconv"

	"github.com/hashwright/pwhash"
)

// Rounds resolves a scheme's linear-cost rounds parameter: stored as-is,
// clamped and validated arithmetically. Work is proportional to rounds.
type Rounds struct {
	Scheme  string
	Min     int
	Max     int
	Default int
}

// Resolve returns the rounds value to use given settings: an explicit
// "rounds" setting wins over Default, then vary_rounds jitter (if any) is
// applied, then the result is validated against [Min, Max]. A resolved
// value outside the bounds is a *pwhash.ConfigError, per spec.md 8's bounds
// property — Resolve never silently clamps an explicit out-of-range value.
func (r Rounds) Resolve(settings pwhash.Settings) (int, error) {
	rounds := r.Default
	if v, ok := settings.Rounds(); ok {
		rounds = v
	}
	if vary, ok := settings.VaryRounds(); ok && vary > 0 {
		var err error
		rounds, err = jitter(rounds, vary, r.Min)
		if err != nil {
			return 0, err
		}
	}
	if rounds < r.Min || rounds > r.Max {
		return 0, &pwhash.ConfigError{Reason: r.Scheme + ": rounds " + strconv.Itoa(rounds) +
			" outside [" + strconv.Itoa(r.Min) + ", " + strconv.Itoa(r.Max) + "]"}
	}
	return rounds, nil
}

// LogRounds resolves a scheme's log2-cost rounds parameter (bcrypt-style):
// the stored value is the exponent; actual work is approximately 2^rounds.
// Clamping, validation and jitter are all performed on the exponent itself.
type LogRounds struct {
	Scheme  string
	Min     int
	Max     int
	Default int
}

// Resolve mirrors Rounds.Resolve but operates on the log2 exponent.
func (r LogRounds) Resolve(settings pwhash.Settings) (int, error) {
	lin := Rounds(r)
	return lin.Resolve(settings)
}

// jitter returns a value drawn uniformly from [rounds*(1-vary), rounds],
// never going below min. vary is a fraction in (0, 1]; the jitter only
// ever decreases the resolved rounds, matching the documented "jitter never
// goes below min" semantics spec.md 9's open question asks reimplementers
// to pick explicitly.
func jitter(rounds int, vary float64, min int) (int, error) {
	if vary > 1 {
		vary = 1
	}
	span := int(float64(rounds) * vary)
	if span <= 0 {
		return rounds, nil
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(span+1)))
	if err != nil {
		return 0, err
	}
	out := rounds - int(n.Int64())
	if out < min {
		out = min
	}
	return out, nil
}
