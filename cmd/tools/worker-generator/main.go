// cmd/tools/worker-generator/main.go
package main

import (
	"flag"
	"fmt"
	"os"

	"disc-workers/pkg/registry"
)

func main() {
	activity := flag.String("activity", "", "Activity ID from registry (e.g., disc-export-profile)")
	outputDir := flag.String("output", "./internal/workers/disc/", "Output directory for the generated worker")
	registryPath := flag.String("registry", "", "Path to the activity registry JSON file (default: the embedded registry)")
	force := flag.Bool("force", false, "Overwrite existing files")
	flag.Parse()

	if *activity == "" {
		fmt.Println("Usage: worker-generator --activity <id> [--output <dir>] [--registry <path>] [--force]")
		fmt.Println("\nExample:")
		fmt.Println("  go run ./cmd/tools/worker-generator --activity disc-export-profile --registry pkg/registry/activity-registry.json")
		os.Exit(1)
	}

	var (
		reg *registry.ActivityRegistry
		err error
	)
	if *registryPath == "" {
		reg, err = registry.Default()
	} else {
		reg, err = registry.LoadRegistry(*registryPath)
	}
	if err != nil {
		fmt.Printf("Error loading registry: %v\n", err)
		os.Exit(1)
	}

	found, ok := reg.Find(*activity)
	if !ok {
		fmt.Printf("Activity '%s' not found in registry\n", *activity)
		os.Exit(1)
	}

	files, err := Generate(found, *outputDir, *force)
	if err != nil {
		fmt.Printf("Error generating worker: %v\n", err)
		os.Exit(1)
	}
	for _, f := range files {
		fmt.Printf("Generated %s\n", f)
	}

	fmt.Printf("\nNext steps:\n")
	fmt.Printf("  1. Implement Execute in handler.go\n")
	fmt.Printf("  2. Extend the tests in handler_test.go\n")
	fmt.Printf("  3. Register the worker in cmd/worker-manager/workers.go\n")
	fmt.Printf("  4. Add its settings under workers: in configs/config.yaml\n")
}
