// Command openapi-compat checks that an API revision keeps every path,
// operation and response code of a base OpenAPI document.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"devconnect/docs"
	"devconnect/internal/apicompat"
)

func main() {
	basePath := flag.String("base", "", "base OpenAPI document (YAML or JSON)")
	revisionPath := flag.String("revision", "", "revision OpenAPI document; defaults to the compiled-in API docs")
	flag.Parse()

	if strings.TrimSpace(*basePath) == "" {
		fmt.Fprintln(os.Stderr, "usage: openapi-compat -base <path> [-revision <path>]")
		os.Exit(2)
	}

	base, err := load(*basePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load base spec: %v\n", err)
		os.Exit(1)
	}

	var revision *apicompat.Spec
	if *revisionPath == "" {
		revision, err = apicompat.Parse([]byte(docs.SwaggerInfo.ReadDoc()))
	} else {
		revision, err = load(*revisionPath)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load revision spec: %v\n", err)
		os.Exit(1)
	}

	if issues := apicompat.Compare(base, revision); len(issues) > 0 {
		fmt.Fprintln(os.Stderr, "backward compatibility check failed:")
		for _, issue := range issues {
			fmt.Fprintf(os.Stderr, "- %s\n", issue)
		}
		os.Exit(1)
	}

	fmt.Println("openapi compatibility check passed")
}

func load(path string) (*apicompat.Spec, error) {
	// #nosec G304: path comes from CLI flags in a dev tool
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return apicompat.Parse(raw)
}
