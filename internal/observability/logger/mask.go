package logger

import (
	"strings"

	"go.uber.org/zap"
)

// Emails loguea direcciones enmascaradas: "ana@example.com" => "a…@e….com".
func Emails(key string, v []string) zap.Field {
	out := make([]string, 0, len(v))
	for _, e := range v {
		out = append(out, MaskEmail(e))
	}
	return zap.Strings(key, out)
}

func MaskEmail(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	i := strings.IndexByte(s, '@')
	if i <= 0 {
		if s == "" {
			return ""
		}
		if len(s) <= 3 {
			return "***"
		}
		return s[:1] + "…" + s[len(s)-1:]
	}
	user, dom := s[:i], s[i+1:]
	if len(user) > 1 {
		user = user[:1] + "…"
	}
	dparts := strings.Split(dom, ".")
	if len(dparts) > 0 && len(dparts[0]) > 1 {
		dparts[0] = dparts[0][:1] + "…"
	}
	return user + "@" + strings.Join(dparts, ".")
}
