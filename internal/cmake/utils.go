package cmake

import "strings"

func writeln(sb *strings.Builder, s ...string) {
	for _, str := range s {
		sb.WriteString(str)
	}
	sb.WriteByte('\n')
}

// needsQuoting reports whether s can't be passed to a command as a single unquoted argument
func needsQuoting(s string) bool {
	return s == "" || strings.ContainsAny(s, " \t\r\n()#\"\\;")
}

// escape escapes s for use between double quotes. Variable references are kept.
func escape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`, "\t", `\t`)
	return r.Replace(s)
}

func quote(s string) string {
	return `"` + escape(s) + `"`
}

// arg renders s as one command argument, quoting it when needed
func arg(s string) string {
	if needsQuoting(s) {
		return quote(s)
	}
	return s
}

func args(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = arg(v)
	}
	return out
}
