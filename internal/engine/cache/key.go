package cache

import "strings"

// keySeparator joins the namespace and arguments of a cache key.
const keySeparator = "|"

// keyEscaper escapes the separator inside arguments so that distinct argument
// lists can never collapse onto the same key.
//
//nolint:gochecknoglobals // Stateless replacer shared by all key builds.
var keyEscaper = strings.NewReplacer(`\`, `\\`, keySeparator, `\`+keySeparator)

// Key builds a deterministic cache key from a namespace and its arguments.
// Arguments are used verbatim: no case or whitespace normalization is applied,
// so callers that want normalization must apply it before calling Key.
//
//	Key("balance", "C001", "2023") == "balance|C001|2023"
func Key(namespace string, args ...string) string {
	if len(args) == 0 {
		return namespace
	}

	var b strings.Builder
	b.WriteString(namespace)
	for _, arg := range args {
		b.WriteString(keySeparator)
		b.WriteString(keyEscaper.Replace(arg))
	}
	return b.String()
}
