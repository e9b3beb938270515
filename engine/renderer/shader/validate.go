package shader

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// entryRegex captures the stage attribute and the name of each entry point function.
	entryRegex = regexp.MustCompile(`@(vertex|fragment|compute)\b[^{]*?\bfn\s+(\w+)`)

	// bindGroupDeclRegex captures the group and binding of each resource declaration.
	bindGroupDeclRegex = regexp.MustCompile(`@group\((\d+)\)\s*@binding\((\d+)\)`)
)

// ErrInvalidSource is wrapped by every Validate failure.
var ErrInvalidSource = errors.New("invalid shader source")

// Validate performs the structural checks run by debug builds before a program is created:
// every named entry point exists, braces and parentheses balance, no include directive is
// left unexpanded and no group/binding pair is declared twice.
//
// Parameters:
//   - source: the expanded WGSL source
//   - entries: entry point names that must be present
//
// Returns:
//   - error: an error wrapping ErrInvalidSource describing the first problem found
func Validate(source string, entries ...string) error {
	if strings.TrimSpace(source) == "" {
		return fmt.Errorf("%w: empty source", ErrInvalidSource)
	}

	for i, line := range strings.Split(source, "\n") {
		if strings.Contains(line, annotationPrefix) {
			return fmt.Errorf("%w: line %d: unresolved annotation %q", ErrInvalidSource, i+1, strings.TrimSpace(line))
		}
	}

	cleaned := stripComments(source)
	if err := checkBalanced(cleaned); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSource, err)
	}

	found := make(map[string]string)
	for _, m := range entryRegex.FindAllStringSubmatch(cleaned, -1) {
		found[m[2]] = m[1]
	}
	for _, entry := range entries {
		if entry == "" {
			continue
		}
		if _, ok := found[entry]; !ok {
			return fmt.Errorf("%w: missing entry point %q", ErrInvalidSource, entry)
		}
	}

	seen := make(map[string]bool)
	for _, m := range bindGroupDeclRegex.FindAllStringSubmatch(cleaned, -1) {
		key := m[1] + "/" + m[2]
		if seen[key] {
			return fmt.Errorf("%w: group %s binding %s declared twice", ErrInvalidSource, m[1], m[2])
		}
		seen[key] = true
	}
	return nil
}

func checkBalanced(source string) error {
	pairs := map[byte]byte{'}': '{', ')': '(', ']': '['}
	var stack []byte
	line := 1
	for i := 0; i < len(source); i++ {
		c := source[i]
		switch c {
		case '\n':
			line++
		case '{', '(', '[':
			stack = append(stack, c)
		case '}', ')', ']':
			if len(stack) == 0 || stack[len(stack)-1] != pairs[c] {
				return fmt.Errorf("line %d: unexpected %q", line, c)
			}
			stack = stack[:len(stack)-1]
		}
	}
	if len(stack) > 0 {
		return fmt.Errorf("unclosed %q", stack[len(stack)-1])
	}
	return nil
}

// stripComments removes line and block comments so they do not interfere with parsing.
func stripComments(source string) string {
	return stripLineComments(stripBlockComments(source))
}

func stripLineComments(source string) string {
	var sb strings.Builder
	for line := range strings.SplitSeq(source, "\n") {
		if idx := strings.Index(line, "//"); idx >= 0 {
			line = line[:idx]
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// stripBlockComments removes /* */ comments, which nest in WGSL.
func stripBlockComments(source string) string {
	var sb strings.Builder
	sb.Grow(len(source))
	depth := 0
	i := 0
	for i < len(source) {
		if i+1 < len(source) {
			if source[i] == '/' && source[i+1] == '*' {
				depth++
				i += 2
				continue
			}
			if source[i] == '*' && source[i+1] == '/' {
				if depth > 0 {
					depth--
				}
				i += 2
				continue
			}
		}
		if depth == 0 || source[i] == '\n' {
			sb.WriteByte(source[i])
		}
		i++
	}
	return sb.String()
}
