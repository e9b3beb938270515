package shader

import (
	"fmt"
	"strings"
)

// annotationPrefix marks a pre-processor directive inside a WGSL line comment.
const annotationPrefix = "@rampart:"

// AnnotationType identifies the kind of directive parsed from a WGSL comment line.
type AnnotationType string

const (
	// AnnotationTypeInclude injects a registered source fragment at the annotation site.
	//
	// Syntax: //@rampart:include <fragment>
	AnnotationTypeInclude AnnotationType = "include"
)

// Annotation is a parsed pre-processor directive.
type Annotation struct {
	Type AnnotationType
	Arg  string
	Line int
}

// parseAnnotation parses a single WGSL line. Lines without the prefix return nil and no error.
//
// Parameters:
//   - line: the raw source line
//   - lineNum: the 1-based line number for error reporting
//
// Returns:
//   - *Annotation: the parsed annotation, or nil if the line is not an annotation
//   - error: an error if the annotation is malformed
func parseAnnotation(line string, lineNum int) (*Annotation, error) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "//") {
		return nil, nil
	}
	_, after, ok := strings.Cut(trimmed, annotationPrefix)
	if !ok {
		return nil, nil
	}

	args := strings.Fields(after)
	if len(args) == 0 {
		return nil, fmt.Errorf("line %d: empty @rampart annotation", lineNum)
	}

	switch AnnotationType(args[0]) {
	case AnnotationTypeInclude:
		if len(args) != 2 {
			return nil, fmt.Errorf("line %d: @rampart include annotation requires exactly one argument", lineNum)
		}
		return &Annotation{Type: AnnotationTypeInclude, Arg: args[1], Line: lineNum}, nil
	default:
		return nil, fmt.Errorf("line %d: unknown @rampart annotation type %q", lineNum, args[0])
	}
}
