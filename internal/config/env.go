package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// env returns the parsed value of key, or def when the variable is unset,
// empty or unparsable.
func env[T any](key string, def T, parse func(string) (T, error)) T {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return def
	}
	v, err := parse(raw)
	if err != nil {
		return def
	}
	return v
}

func envStr(key, def string) string {
	return env(key, def, func(s string) (string, error) { return s, nil })
}

// envLower reads a keyword such as a driver or mode name.
func envLower(key, def string) string {
	return strings.ToLower(strings.TrimSpace(envStr(key, def)))
}

func envInt(key string, def int) int { return env(key, def, strconv.Atoi) }

func envFloat(key string, def float64) float64 {
	return env(key, def, func(s string) (float64, error) { return strconv.ParseFloat(s, 64) })
}

func envDur(key string, def time.Duration) time.Duration {
	return env(key, def, time.ParseDuration)
}

func envBool(key string, def bool) bool { return env(key, def, parseBool) }

type badBool string

func (b badBool) Error() string { return "not a boolean: " + string(b) }

// parseBool accepts the usual spellings of on and off, case-insensitively.
func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y", "on":
		return true, nil
	case "0", "false", "no", "n", "off":
		return false, nil
	}
	return false, badBool(s)
}

// splitCSV splits a comma list, dropping blanks.
func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// normalizeBasePath returns p with one leading slash and no trailing slash;
// a blank path becomes "/".
func normalizeBasePath(p string) string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	return "/" + p
}
