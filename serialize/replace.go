package serialize

import (
	"strconv"
	"strings"
)

// Replacer maps a generated class name and its discovery index to a
// deterministic alias.
type Replacer func(className string, index int) string

// DefaultReplacer yields sequential "c0", "c1", ... aliases.
func DefaultReplacer(_ string, index int) string {
	return "c" + strconv.Itoa(index)
}

// ReplaceClassNames rewrites opaque generated class names to deterministic
// aliases consistently across the printed tree text and the CSS block, then
// splices the CSS block into the final snapshot text. Only class names
// under a known key-prefix are rewritten; stable user-chosen classes pass
// through untouched. One index counter spans all prefixes so every distinct
// class name gets a distinct alias, and identical discovery order yields
// identical aliases across calls.
func ReplaceClassNames(classNames []string, cssText, text string, keyPrefixes []string, replacer Replacer) string {
	if replacer == nil {
		replacer = DefaultReplacer
	}
	index := 0
	for _, name := range classNames {
		if !matchesPrefix(name, keyPrefixes) {
			continue
		}
		alias := replacer(name, index)
		index++
		text = replaceToken(text, name, alias)
		cssText = replaceToken(cssText, name, alias)
	}
	if cssText == "" {
		return text
	}
	return text + "\n\n" + strings.TrimRight(cssText, "\n")
}

func matchesPrefix(className string, keyPrefixes []string) bool {
	for _, p := range keyPrefixes {
		if strings.HasPrefix(className, p+"-") {
			return true
		}
	}
	return false
}

// replaceToken substitutes whole class-name tokens only: an occurrence
// flanked by identifier bytes belongs to a longer class name and stays put.
func replaceToken(s, name, alias string) string {
	var sb strings.Builder
	for {
		i := strings.Index(s, name)
		if i < 0 {
			sb.WriteString(s)
			return sb.String()
		}
		lead := i == 0 || !isNameByte(s[i-1])
		trail := i+len(name) == len(s) || !isNameByte(s[i+len(name)])
		sb.WriteString(s[:i])
		if lead && trail {
			sb.WriteString(alias)
		} else {
			sb.WriteString(name)
		}
		s = s[i+len(name):]
	}
}

func isNameByte(b byte) bool {
	return b == '-' || b == '_' ||
		('0' <= b && b <= '9') || ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
}
