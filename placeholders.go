package platypus

import "strings"

// ReplacePlaceholders substitutes every "{name}" occurrence in s with
// captures[name], dropping unresolved placeholders (no such capture)
// entirely so the enclosing frame is left empty. Braces may nest:
// "{a{b}}" resolves the inner "{b}" first, then looks up the resulting
// name, via a stack of in-progress name buffers, one per open brace
// depth.
func ReplacePlaceholders(s string, captures map[string]string) string {
	stack := []*strings.Builder{{}}

	for _, ch := range s {
		switch ch {
		case '{':
			stack = append(stack, &strings.Builder{})
		case '}':
			if len(stack) == 1 {
				stack[0].WriteRune(ch)
				continue
			}
			name := stack[len(stack)-1].String()
			stack = stack[:len(stack)-1]
			top := stack[len(stack)-1]
			if val, ok := captures[name]; ok {
				top.WriteString(val)
			}
		default:
			stack[len(stack)-1].WriteRune(ch)
		}
	}

	// Unterminated braces: flatten whatever remains literally, innermost
	// first, prefixed with the brace that opened it.
	for len(stack) > 1 {
		inner := stack[len(stack)-1].String()
		stack = stack[:len(stack)-1]
		top := stack[len(stack)-1]
		top.WriteByte('{')
		top.WriteString(inner)
	}

	return stack[0].String()
}
