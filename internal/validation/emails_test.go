package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseEmails(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{" a@b.com \n\nbad\nc@d.com", []string{"a@b.com", "c@d.com"}},
		{"", []string{}},
		{"\n \n\t\n", []string{}},
		{"no-at-sign\nstill bad", []string{}},
		{"z@z.io\na@a.io\r\nm@m.io", []string{"z@z.io", "a@a.io", "m@m.io"}},
		{"  spaced@x.com\t", []string{"spaced@x.com"}},
		{"dup@x.com\ndup@x.com", []string{"dup@x.com", "dup@x.com"}},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, ParseEmails(tc.in), "input %q", tc.in)
	}
}

func TestParseEmails_OutputInvariants(t *testing.T) {
	in := "  x@y\n\n@\n  \nplain\nq@w.e  \n"
	for _, e := range ParseEmails(in) {
		require.Contains(t, e, "@")
		require.NotEmpty(t, e)
		require.Equal(t, strings.TrimSpace(e), e)
	}
}

func TestSplitCSV(t *testing.T) {
	require.Equal(t, []string{"a@b.com", "c@d.com"}, SplitCSV("a@b.com, ,bad, c@d.com "))
	require.Empty(t, SplitCSV(""))
}

func TestExtractVariables(t *testing.T) {
	got := ExtractVariables("Hola {{name}}", "Tu pedido {{order_id}} de {{name}} {{ bad }} {{x-y}}")
	require.Equal(t, []string{"name", "order_id"}, got)
	require.Equal(t, []string{}, ExtractVariables("sin variables"))
}

func TestReplaceVariables(t *testing.T) {
	out := ReplaceVariables("Hola {{name}}, pedido {{id}}", map[string]string{"name": "Ana"})
	require.Equal(t, "Hola Ana, pedido {{id}}", out)
}

func TestValidVariableName(t *testing.T) {
	require.True(t, ValidVariableName("order_id"))
	require.True(t, ValidVariableName("x1"))
	require.False(t, ValidVariableName(""))
	require.False(t, ValidVariableName("x-y"))
	require.False(t, ValidVariableName("a b"))
}
