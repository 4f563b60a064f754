// cmd/tools/registry-updater/main.go
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		help(os.Stdout)
		os.Exit(1)
	}
	if err := run(os.Args[1], os.Args[2:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(command string, args []string, out io.Writer) error {
	switch command {
	case "add":
		fs := flag.NewFlagSet("add", flag.ContinueOnError)
		path := fs.String("path", defaultRegistryPath, "Path to registry file")
		id := fs.String("id", "", "Activity ID, also used as task type (e.g., disc-save-profile)")
		displayName := fs.String("displayName", "", "Display Name (e.g., Save DISC Profile)")
		description := fs.String("description", "", "Description")
		category := fs.String("category", "", "Category (e.g., persistence)")
		version := fs.String("version", "1.0.0", "Version")
		status := fs.String("status", "planned", "Implementation Status (planned, in-progress, completed, verified)")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if *id == "" || *displayName == "" || *description == "" || *category == "" {
			fs.Usage()
			return fmt.Errorf("id, displayName, description and category are required for add")
		}
		if err := addActivity(*path, newActivity(*id, *displayName, *description, *category, *version, *status)); err != nil {
			return err
		}
		fmt.Fprintf(out, "Added activity: %s\n", *id)

	case "update":
		fs := flag.NewFlagSet("update", flag.ContinueOnError)
		path := fs.String("path", defaultRegistryPath, "Path to registry file")
		id := fs.String("id", "", "Activity ID to update")
		field := fs.String("field", "", "Field to update (status, version, displayName, description, category, timeout, retries)")
		value := fs.String("value", "", "New value for the field")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if *id == "" || *field == "" || *value == "" {
			fs.Usage()
			return fmt.Errorf("id, field and value are required for update")
		}
		if err := updateActivity(*path, *id, *field, *value); err != nil {
			return err
		}
		fmt.Fprintf(out, "Updated activity %s, field %s to %s\n", *id, *field, *value)

	case "validate":
		fs := flag.NewFlagSet("validate", flag.ContinueOnError)
		path := fs.String("path", "", "Path to registry file (default: the embedded registry)")
		if err := fs.Parse(args); err != nil {
			return err
		}
		count, err := validateRegistry(*path)
		if err != nil {
			return fmt.Errorf("registry validation failed: %w", err)
		}
		fmt.Fprintf(out, "Registry validation passed. Found %d activities.\n", count)

	case "list":
		fs := flag.NewFlagSet("list", flag.ContinueOnError)
		path := fs.String("path", "", "Path to registry file (default: the embedded registry)")
		if err := fs.Parse(args); err != nil {
			return err
		}
		return listActivities(*path, out)

	case "check":
		fs := flag.NewFlagSet("check", flag.ContinueOnError)
		taskType := fs.String("task", "", "Task type whose input schema is used")
		input := fs.String("input", "", "JSON file holding the job variables")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if *taskType == "" || *input == "" {
			fs.Usage()
			return fmt.Errorf("task and input are required for check")
		}
		return checkVariables(*taskType, *input, out)

	default:
		help(out)
	}
	return nil
}

func help(out io.Writer) {
	fmt.Fprint(out, `
Usage: registry-updater <command> [flags]

Commands:
  add       Add a new activity to a registry file
  update    Update an existing activity's field
  validate  Validate a registry file, or the embedded registry
  list      List activities and their task types
  check     Validate job variables against an activity's input schema
  help      Show this help message

Examples:
  registry-updater add -id disc-export-profile -displayName "Export Profile" -description "Exports a profile" -category persistence
  registry-updater update -id disc-save-profile -field status -value verified
  registry-updater validate -path pkg/registry/activity-registry.json
  registry-updater check -task disc-calculate-profile -input answers.json

Use 'registry-updater <command> -h' for more information about a command.
`)
}
