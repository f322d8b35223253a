package pwhash

// Settings carries the per-call knobs a Hasher accepts: rounds, salt,
// salt size, ident variant, and scheme-specific extras. It is a thin
// typed view over a map so that a Context can layer scheme defaults,
// scheme overrides, category overrides and call-site arguments without
// each layer needing to know every scheme's field set.
type Settings map[string]any

// NewSettings returns an empty Settings value.
func NewSettings() Settings {
	return Settings{}
}

// With returns a copy of s with key set to value.
func (s Settings) With(key string, value any) Settings {
	out := make(Settings, len(s)+1)
	for k, v := range s {
		out[k] = v
	}
	out[key] = value
	return out
}

// Merge layers over onto s, with over's keys winning on conflict. Neither
// argument is mutated.
func (s Settings) Merge(over Settings) Settings {
	out := make(Settings, len(s)+len(over))
	for k, v := range s {
		out[k] = v
	}
	for k, v := range over {
		out[k] = v
	}
	return out
}

// Rounds returns the "rounds" key as an int.
func (s Settings) Rounds() (int, bool) {
	v, ok := s["rounds"]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	}
	return 0, false
}

// Salt returns the "salt" key as raw bytes.
func (s Settings) Salt() ([]byte, bool) {
	v, ok := s["salt"]
	if !ok {
		return nil, false
	}
	switch b := v.(type) {
	case []byte:
		return b, true
	case string:
		return []byte(b), true
	}
	return nil, false
}

// SaltSize returns the "salt_size" key as an int.
func (s Settings) SaltSize() (int, bool) {
	v, ok := s["salt_size"]
	if !ok {
		return 0, false
	}
	n, ok := v.(int)
	return n, ok
}

// Ident returns the "ident" key, the scheme variant prefix to use.
func (s Settings) Ident() (string, bool) {
	v, ok := s["ident"]
	if !ok {
		return "", false
	}
	n, ok := v.(string)
	return n, ok
}

// VaryRounds returns the "vary_rounds" key, a jitter fraction in [0,1].
func (s Settings) VaryRounds() (float64, bool) {
	v, ok := s["vary_rounds"]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}

// Backend returns the "backend" key, a scheme's backend-selection knob per
// spec.md 4.4 ("policy-pinned > first available").
func (s Settings) Backend() (string, bool) {
	v, ok := s["backend"]
	if !ok {
		return "", false
	}
	n, ok := v.(string)
	return n, ok
}

// TruncateError returns the "truncate_error" key.
func (s Settings) TruncateError() (bool, bool) {
	v, ok := s["truncate_error"]
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}
