package validation

import (
	"regexp"
	"strings"
)

// ParseEmails convierte el texto de un textarea (una dirección por línea) en
// la lista de destinatarios: recorta espacios, descarta líneas vacías y
// entradas sin "@", y conserva el orden.
//
//	ParseEmails(" a@b.com \n\nbad\nc@d.com") => ["a@b.com", "c@d.com"]
func ParseEmails(text string) []string {
	return filterEmails(strings.Split(text, "\n"))
}

// SplitCSV es la variante para flags de la CLI: "a@b.com, c@d.com".
func SplitCSV(s string) []string {
	return filterEmails(strings.Split(s, ","))
}

func filterEmails(parts []string) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" || !strings.Contains(p, "@") {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Placeholders de plantilla: {{nombre}} con nombre \w+ (igual que el backend).
var placeholderRe = regexp.MustCompile(`\{\{(\w+)\}\}`)

var variableNameRe = regexp.MustCompile(`^\w+$`)

// ValidVariableName reporta si name sirve como placeholder {{name}}.
func ValidVariableName(name string) bool {
	return variableNameRe.MatchString(name)
}

// ExtractVariables devuelve los nombres de placeholder presentes en los
// textos, sin duplicados y en orden de aparición.
func ExtractVariables(texts ...string) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, t := range texts {
		for _, m := range placeholderRe.FindAllStringSubmatch(t, -1) {
			if !seen[m[1]] {
				seen[m[1]] = true
				out = append(out, m[1])
			}
		}
	}
	return out
}

// ReplaceVariables sustituye {{name}} por vars[name]; los placeholders sin
// valor quedan tal cual.
func ReplaceVariables(text string, vars map[string]string) string {
	return placeholderRe.ReplaceAllStringFunc(text, func(m string) string {
		name := m[2 : len(m)-2]
		if v, ok := vars[name]; ok {
			return v
		}
		return m
	})
}
