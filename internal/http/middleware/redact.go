package middleware

import (
	"net/http"
	"regexp"
	"strings"
)

// Patterns are applied in this order: UUIDs first, so the phone pattern
// never sees their digit groups.
var (
	uuidRE  = regexp.MustCompile(`(?i)\b[0-9a-f]{8}-[0-9a-f]{4}-[1-5][0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}\b`)
	emailRE = regexp.MustCompile(`(?i)\b[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}\b`)
	phoneRE = regexp.MustCompile(`\b(?:\+?\d{1,3}[ .-]?)?(?:\(?\d{2,4}\)?[ .-]?)?\d{3,4}[ .-]?\d{4}\b`)
)

// credentialHeaders are always masked in redacted logs. The viewer id is
// masked too: it links requests of one anonymous reader.
var credentialHeaders = []string{
	"Authorization",
	"Cookie",
	"Set-Cookie",
	HeaderAPIKey,
	HeaderViewerID,
}

const masked = "[REDACTED]"

// scrubber removes personal data from values bound for the access log.
type scrubber struct {
	mask map[string]struct{}
}

func newScrubber(extra []string) *scrubber {
	s := &scrubber{mask: make(map[string]struct{}, len(credentialHeaders)+len(extra))}
	for _, h := range append(append([]string{}, credentialHeaders...), extra...) {
		if h = strings.TrimSpace(h); h != "" {
			s.mask[http.CanonicalHeaderKey(h)] = struct{}{}
		}
	}
	return s
}

func (s *scrubber) text(v string) string {
	if v == "" {
		return v
	}
	v = uuidRE.ReplaceAllString(v, "[REDACTED:id]")
	v = emailRE.ReplaceAllString(v, "[REDACTED:email]")
	return phoneRE.ReplaceAllString(v, "[REDACTED:phone]")
}

func (s *scrubber) headers(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, vv := range h {
		if _, ok := s.mask[http.CanonicalHeaderKey(k)]; ok {
			out[k] = masked
			continue
		}
		out[k] = s.text(strings.Join(vv, ", "))
	}
	return out
}
