package pwhash

import (
	"sync"
	"time"
)

// Context is an immutable policy object composed over a Registry: it
// chooses a default scheme for new hashes, accepts a set of legacy schemes
// for verification, flags hashes needing an upgrade, and applies overrides
// by category. Contexts are built once via NewContext; Update returns a new
// Context rather than mutating the receiver.
type Context struct {
	policy   Policy
	registry *Registry

	calibration sync.Map // map[calibrationKey]int
}

type calibrationKey struct {
	scheme string
	target time.Duration
}

// NewContext validates policy against registry and returns a Context. Every
// scheme named in policy (in Schemes, Deprecated, SchemeSettings keys or
// CategorySettings keys) must resolve in registry, or construction fails
// with *ConfigError.
func NewContext(policy Policy, registry *Registry) (*Context, error) {
	if registry == nil {
		registry = DefaultRegistry
	}
	if len(policy.Schemes) == 0 {
		return nil, &ConfigError{Reason: "policy declares no schemes"}
	}
	seen := make(map[string]bool)
	check := func(name string) error {
		if seen[name] {
			return nil
		}
		if _, _, ok := registry.Lookup(name); !ok {
			return &ConfigError{Reason: "unknown scheme " + name}
		}
		seen[name] = true
		return nil
	}
	for _, s := range policy.Schemes {
		if err := check(s); err != nil {
			return nil, err
		}
	}
	if policy.Default != "" {
		if err := check(policy.Default); err != nil {
			return nil, err
		}
	}
	for _, s := range policy.Deprecated {
		if err := check(s); err != nil {
			return nil, err
		}
	}
	for s := range policy.SchemeSettings {
		if err := check(s); err != nil {
			return nil, err
		}
	}
	for _, m := range policy.CategorySettings {
		for s := range m {
			if err := check(s); err != nil {
				return nil, err
			}
		}
	}
	if policy.MinVerifyTime != "" {
		if _, err := time.ParseDuration(policy.MinVerifyTime); err != nil {
			return nil, &ConfigError{Reason: "min_verify_time: " + err.Error()}
		}
	}
	return &Context{policy: policy, registry: registry}, nil
}

// Policy returns the Context's Policy value.
func (c *Context) Policy() Policy { return c.policy }

func (c *Context) lookup(scheme string) (Hasher, error) {
	h, err, ok := c.registry.Lookup(scheme)
	if !ok {
		return nil, &ConfigError{Reason: "unknown scheme " + scheme}
	}
	if err != nil {
		return nil, err
	}
	return h, nil
}

// effectiveScheme resolves the scheme to use per spec.md 4.3: explicit
// scheme argument, else the category's own default, else the policy's
// global default.
func (c *Context) effectiveScheme(scheme, category string) string {
	if scheme != "" {
		return scheme
	}
	if category != "" {
		if d, ok := c.policy.CategoryDefault[category]; ok {
			return d
		}
	}
	return c.policy.Default
}

// effectiveSettings layers scheme overrides, then category overrides, then
// call-site kwds on top of an empty base; last write wins.
func (c *Context) effectiveSettings(scheme, category string, kwds Settings) Settings {
	s := Settings{}
	if over, ok := c.policy.SchemeSettings[scheme]; ok {
		s = s.Merge(over)
	}
	if category != "" {
		if m, ok := c.policy.CategorySettings[category]; ok {
			if over, ok := m[scheme]; ok {
				s = s.Merge(over)
			}
		}
	}
	s = s.Merge(kwds)
	if _, ok := s.TruncateError(); !ok && c.policy.TruncateError {
		s = s.With("truncate_error", true)
	}
	if c.policy.MinRounds > 0 {
		if r, ok := s.Rounds(); !ok || r < c.policy.MinRounds {
			s = s.With("rounds", c.policy.MinRounds)
		}
	}
	return s
}

// Hash hashes secret under scheme (or the policy/category default if
// scheme == ""), with kwds layered on top of scheme and category overrides.
func (c *Context) Hash(secret, scheme, category string, kwds Settings) (string, error) {
	name := c.effectiveScheme(scheme, category)
	if name == "" {
		return "", &ConfigError{Reason: "no default scheme configured"}
	}
	h, err := c.lookup(name)
	if err != nil {
		return "", err
	}
	settings := c.effectiveSettings(name, category, kwds)
	// truncate_error (policy-wide, or per-call via kwds) turns a scheme's
	// documented silent-truncation behavior (e.g. bcrypt's 72-byte limit)
	// into a hard error instead, per spec.md 3's policy on oversize secrets.
	if te, ok := settings.TruncateError(); ok && te {
		if tr, ok := h.(interface{ TruncationRisk(int) bool }); ok && tr.TruncationRisk(len(secret)) {
			return "", &PasswordTruncateError{Scheme: name, Size: len(secret)}
		}
	}
	return h.Hash(secret, settings)
}

// Identify tries each policy scheme in order and returns the name of the
// first that identifies hash. Ambiguity is resolved by policy order, not by
// "best match" — schemes SHOULD have disjoint prefixes.
func (c *Context) Identify(hash string) (string, bool) {
	for _, name := range c.policy.Schemes {
		h, err := c.lookup(name)
		if err != nil {
			continue
		}
		if h.Identify(hash) {
			return name, true
		}
	}
	return "", false
}

// Verify identifies hash (or uses the explicit scheme argument), then
// delegates to that scheme's Verify. If policy.MinVerifyTime is set, Verify
// pads elapsed time up to the threshold regardless of outcome so the delay
// does not leak whether verification succeeded. If policy.HardenVerify is
// set and hash cannot be identified, a dummy hash under the default scheme
// is performed first to equalize wall-clock time with the success path.
func (c *Context) Verify(secret, hash, scheme, category string) error {
	start := time.Now()
	err := c.verify(secret, hash, scheme, category)
	c.pad(start)
	return err
}

func (c *Context) verify(secret, hash, scheme, category string) error {
	name := scheme
	if name == "" {
		var ok bool
		name, ok = c.Identify(hash)
		if !ok {
			if c.policy.HardenVerify && c.policy.Default != "" {
				if h, derr := c.lookup(c.policy.Default); derr == nil {
					_, _ = h.Hash(secret, c.effectiveSettings(c.policy.Default, category, Settings{}))
				}
			}
			return &UnknownHashError{Hash: hash}
		}
	}
	h, err := c.lookup(name)
	if err != nil {
		return err
	}
	return h.Verify(secret, hash)
}

func (c *Context) pad(start time.Time) {
	if c.policy.MinVerifyTime == "" {
		return
	}
	min, err := time.ParseDuration(c.policy.MinVerifyTime)
	if err != nil {
		return
	}
	if elapsed := time.Since(start); elapsed < min {
		time.Sleep(min - elapsed)
	}
}

// NeedsUpdate reports whether hash should be re-hashed under the current
// policy: its scheme is not the category/global default, is in the
// deprecated set, or its own parameters (rounds, salt size, ident variant)
// fall below what the policy now resolves to. secret, if non-empty, is also
// checked against scheme-specific truncation-risk rules (e.g. bcrypt's
// 72-byte limit).
func (c *Context) NeedsUpdate(hash, category, secret string) bool {
	name, ok := c.Identify(hash)
	if !ok {
		return false
	}
	if name != c.effectiveScheme("", category) {
		return true
	}
	if c.policy.isDeprecated(name) {
		return true
	}
	h, err := c.lookup(name)
	if err != nil {
		return false
	}
	policyForScheme := c.policy
	policyForScheme.Default = c.effectiveScheme("", category)
	if h.NeedsUpdate(hash, policyForScheme) {
		return true
	}
	if secret != "" {
		if tr, ok := h.(interface{ TruncationRisk(int) bool }); ok && tr.TruncationRisk(len(secret)) {
			return true
		}
	}
	return false
}

// VerifyAndUpdate verifies secret against hash, and if it succeeds and the
// hash needs an update, also produces a freshly hashed replacement. The
// caller persists newHash iff non-empty, enabling incremental upgrades
// triggered by successful logins.
func (c *Context) VerifyAndUpdate(secret, hash, scheme, category string) (ok bool, newHash string, err error) {
	if err = c.Verify(secret, hash, scheme, category); err != nil {
		if err == ErrMismatch {
			return false, "", nil
		}
		return false, "", err
	}
	if !c.NeedsUpdate(hash, category, secret) {
		return true, "", nil
	}
	newHash, err = c.Hash(secret, "", category, Settings{})
	if err != nil {
		return true, "", err
	}
	return true, newHash, nil
}

// Calibrate resolves the rounds value for scheme that makes a Hash call
// take approximately target wall-clock time, caching the result for
// subsequent calls with the same (scheme, target) pair. The search is an
// exponential probe (double rounds until target is met or exceeded)
// followed by a binary search between the last two probes. Populated under
// a mutex-free write-once pattern: a benign duplicate computation by a
// racing goroutine is tolerated since both converge to the same answer.
func (c *Context) Calibrate(scheme string, target time.Duration) (int, error) {
	key := calibrationKey{scheme: scheme, target: target}
	if v, ok := c.calibration.Load(key); ok {
		return v.(int), nil
	}
	h, err := c.lookup(scheme)
	if err != nil {
		return 0, err
	}
	rounds, err := calibrate(h, target)
	if err != nil {
		return 0, err
	}
	actual, _ := c.calibration.LoadOrStore(key, rounds)
	return actual.(int), nil
}

func calibrate(h Hasher, target time.Duration) (int, error) {
	const probeSecret = "pwhash-calibration-probe"
	rounds := 1
	var elapsed time.Duration
	for {
		start := time.Now()
		if _, err := h.Hash(probeSecret, Settings{"rounds": rounds}); err != nil {
			return 0, err
		}
		elapsed = time.Since(start)
		if elapsed >= target || rounds > 1<<30 {
			break
		}
		rounds *= 2
	}
	lo, hi := rounds/2, rounds
	if lo < 1 {
		lo = 1
	}
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		start := time.Now()
		if _, err := h.Hash(probeSecret, Settings{"rounds": mid}); err != nil {
			return 0, err
		}
		if time.Since(start) >= target {
			hi = mid
		} else {
			lo = mid
		}
	}
	return hi, nil
}
