package pwhash

import (
	"encoding/base64"
	"sort"
	"strconv"
	"strings"
)

// EncodeConfig serializes a fully-resolved Settings value (salt already
// drawn, rounds already chosen) into the opaque string a Hasher's
// GenConfig returns and GenHash consumes. The string is not a scheme's own
// wire format — callers never persist it — it only needs to round-trip
// through a single scheme's GenHash, so one format serves every scheme.
func EncodeConfig(settings Settings) string {
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(k)
		b.WriteByte('=')
		switch v := settings[k].(type) {
		case []byte:
			b.WriteString("b64:" + base64.RawStdEncoding.EncodeToString(v))
		case string:
			b.WriteString("s:" + base64.RawStdEncoding.EncodeToString([]byte(v)))
		case int:
			b.WriteString("i:" + strconv.Itoa(v))
		case float64:
			b.WriteString("f:" + strconv.FormatFloat(v, 'g', -1, 64))
		case bool:
			b.WriteString("t:" + strconv.FormatBool(v))
		}
	}
	return b.String()
}

// DecodeConfig reverses EncodeConfig.
func DecodeConfig(config string) (Settings, error) {
	settings := Settings{}
	if config == "" {
		return settings, nil
	}
	for _, field := range strings.Split(config, ";") {
		eq := strings.IndexByte(field, '=')
		if eq < 0 {
			return nil, &MalformedHashError{Scheme: "config", Reason: "missing '=' in field"}
		}
		key, tagged := field[:eq], field[eq+1:]
		colon := strings.IndexByte(tagged, ':')
		if colon < 0 {
			return nil, &MalformedHashError{Scheme: "config", Reason: "missing type tag in field"}
		}
		tag, payload := tagged[:colon], tagged[colon+1:]
		switch tag {
		case "b64":
			b, err := base64.RawStdEncoding.DecodeString(payload)
			if err != nil {
				return nil, &MalformedHashError{Scheme: "config", Reason: err.Error()}
			}
			settings[key] = b
		case "s":
			b, err := base64.RawStdEncoding.DecodeString(payload)
			if err != nil {
				return nil, &MalformedHashError{Scheme: "config", Reason: err.Error()}
			}
			settings[key] = string(b)
		case "i":
			n, err := strconv.Atoi(payload)
			if err != nil {
				return nil, &MalformedHashError{Scheme: "config", Reason: err.Error()}
			}
			settings[key] = n
		case "f":
			f, err := strconv.ParseFloat(payload, 64)
			if err != nil {
				return nil, &MalformedHashError{Scheme: "config", Reason: err.Error()}
			}
			settings[key] = f
		case "t":
			bo, err := strconv.ParseBool(payload)
			if err != nil {
				return nil, &MalformedHashError{Scheme: "config", Reason: err.Error()}
			}
			settings[key] = bo
		default:
			return nil, &MalformedHashError{Scheme: "config", Reason: "unknown type tag " + tag}
		}
	}
	return settings, nil
}
