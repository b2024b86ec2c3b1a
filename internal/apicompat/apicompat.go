// Package apicompat detects backward-incompatible changes between two
// OpenAPI (Swagger 2.0) documents. JSON documents are accepted as YAML.
package apicompat

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

var methods = map[string]bool{
	"get":     true,
	"put":     true,
	"post":    true,
	"delete":  true,
	"patch":   true,
	"head":    true,
	"options": true,
}

// Spec is the part of an OpenAPI document clients depend on:
// path -> method -> documented response codes.
type Spec struct {
	Paths map[string]map[string]map[string]bool
}

type document struct {
	Paths map[string]map[string]yaml.Node `yaml:"paths"`
}

type operation struct {
	Responses map[string]yaml.Node `yaml:"responses"`
}

// Parse reads the operations and response codes of an OpenAPI document.
func Parse(raw []byte) (*Spec, error) {
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	if doc.Paths == nil {
		return nil, errors.New("missing top-level paths field")
	}

	spec := &Spec{Paths: make(map[string]map[string]map[string]bool, len(doc.Paths))}
	for path, item := range doc.Paths {
		ops := make(map[string]map[string]bool)
		for key, node := range item {
			method := strings.ToLower(strings.TrimSpace(key))
			if !methods[method] {
				continue
			}
			var op operation
			if err := node.Decode(&op); err != nil {
				return nil, fmt.Errorf("decode %s %s: %w", strings.ToUpper(method), path, err)
			}
			codes := make(map[string]bool, len(op.Responses))
			for code := range op.Responses {
				if code = strings.ToLower(strings.TrimSpace(code)); code != "" {
					codes[code] = true
				}
			}
			ops[method] = codes
		}
		if len(ops) > 0 {
			spec.Paths[path] = ops
		}
	}
	return spec, nil
}

// Compare lists everything base documents that revision no longer does.
// Additions are compatible and not reported.
func Compare(base, revision *Spec) []string {
	var issues []string

	for path, baseOps := range base.Paths {
		revOps, ok := revision.Paths[path]
		if !ok {
			issues = append(issues, "removed path: "+path)
			continue
		}
		for method, baseCodes := range baseOps {
			revCodes, ok := revOps[method]
			if !ok {
				issues = append(issues, fmt.Sprintf("removed operation: %s %s", strings.ToUpper(method), path))
				continue
			}
			for code := range baseCodes {
				if !revCodes[code] {
					issues = append(issues, fmt.Sprintf("removed response code: %s %s -> %s",
						strings.ToUpper(method), path, strings.ToUpper(code)))
				}
			}
		}
	}

	sort.Strings(issues)
	return issues
}
