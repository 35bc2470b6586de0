// README: Two-way binding between the editable summary text and a Set.
package selection

import "strings"

const separator = ": "

// ParseRawText keeps every "key: value" line with a non-empty key and value. The split happens
// on the first separator only. Anything else is dropped without error.
func ParseRawText(text string) *Set {
	set := &Set{}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		key, value, ok := strings.Cut(line, separator)
		if !ok || key == "" || value == "" {
			continue
		}
		set.Put(key, value)
	}
	return set
}

func FormatRawText(set *Set) string {
	return strings.Join(set.Lines(), "\n")
}
