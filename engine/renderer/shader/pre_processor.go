// pre_processor.go implements the oxy WGSL shader pre-processor. It scans shader source for
// //@oxy:include annotations and replaces each with the WGSL struct source registered under
// the annotation's argument, so the Go side of a GPU struct and its WGSL declaration live
// next to each other and never drift apart.
package shader

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-view/engine/camera"
)

// annotationPrefix is the marker that identifies an oxy annotation within a WGSL comment line.
const annotationPrefix = "@oxy:"

// annotationInclude injects a registered struct source at the annotation site.
//
// Syntax: //@oxy:include <struct_type>
const annotationInclude = "include"

// IncludeCamera identifies the CameraUniform struct from the camera package.
const IncludeCamera = "camera"

// preProcessor is the implementation of the PreProcessor interface.
type preProcessor struct {
	// includes maps an include argument to the WGSL source injected for it.
	includes map[string]string

	// resolved records, in source order, the include arguments consumed by the last Process call.
	resolved []string
}

// PreProcessor replaces //@oxy:include annotations in WGSL source with registered struct sources.
type PreProcessor interface {
	// Process pre-processes the given WGSL source.
	//
	// Parameters:
	//   - source: the raw WGSL shader source code containing annotations to be processed
	//
	// Returns:
	//   - string: the processed WGSL source with every annotation replaced
	//   - error: an error if an annotation is malformed or references an unknown struct
	Process(source string) (string, error)

	// Includes returns the include arguments resolved by the most recent Process call, in source order.
	//
	// Returns:
	//   - []string: the resolved include arguments
	Includes() []string
}

var _ PreProcessor = &preProcessor{}

// PreProcessorOption is a functional option applied to a PreProcessor during construction.
type PreProcessorOption func(*preProcessor)

// WithInclude registers an additional struct source under the given include argument.
//
// Parameters:
//   - name: the include argument, e.g. "mesh_transform"
//   - source: the WGSL source injected for it
//
// Returns:
//   - PreProcessorOption: a function that registers the include on a pre-processor
func WithInclude(name, source string) PreProcessorOption {
	return func(p *preProcessor) {
		p.includes[name] = source
	}
}

// NewPreProcessor creates a PreProcessor with the camera uniform pre-registered.
//
// Parameters:
//   - options: functional options registering further includes
//
// Returns:
//   - PreProcessor: a ready-to-use pre-processor instance
func NewPreProcessor(options ...PreProcessorOption) PreProcessor {
	p := &preProcessor{
		includes: map[string]string{
			IncludeCamera: camera.GPUCameraUniformSource,
		},
	}
	for _, option := range options {
		option(p)
	}
	return p
}

func (p *preProcessor) Process(source string) (string, error) {
	p.resolved = p.resolved[:0]

	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))
	for i, line := range lines {
		name, ok, err := parseInclude(line, i+1)
		if err != nil {
			return "", err
		}
		if !ok {
			out = append(out, line)
			continue
		}
		src, known := p.includes[name]
		if !known {
			return "", fmt.Errorf("line %d: unknown @oxy:include argument %q", i+1, name)
		}
		out = append(out, src)
		p.resolved = append(p.resolved, name)
	}
	return strings.Join(out, "\n"), nil
}

func (p *preProcessor) Includes() []string {
	return p.resolved
}

// parseInclude attempts to parse a single line of WGSL source as an include annotation.
// Lines without the annotation prefix return ok == false and no error.
//
// Parameters:
//   - line: the raw WGSL source line to parse
//   - lineNum: the 1-based line number for error reporting
//
// Returns:
//   - string: the include argument
//   - bool: true if the line is an include annotation
//   - error: a descriptive error if the annotation is malformed
func parseInclude(line string, lineNum int) (string, bool, error) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "//") {
		return "", false, nil
	}
	_, after, ok := strings.Cut(trimmed, annotationPrefix)
	if !ok {
		return "", false, nil
	}

	args := strings.Fields(after)
	if len(args) == 0 {
		return "", false, fmt.Errorf("line %d: empty @oxy annotation", lineNum)
	}
	if args[0] != annotationInclude {
		return "", false, fmt.Errorf("line %d: unknown @oxy annotation type %q", lineNum, args[0])
	}
	if len(args) != 2 {
		return "", false, fmt.Errorf("line %d: @oxy include annotation requires exactly one argument", lineNum)
	}
	return args[1], true, nil
}
