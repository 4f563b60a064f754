// cmd/tools/registry-updater/commands.go
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"disc-workers/internal/common/validation"
	"disc-workers/pkg/registry"
)

const defaultRegistryPath = "pkg/registry/activity-registry.json"

func newActivity(id, displayName, description, category, version, status string) *registry.Activity {
	return &registry.Activity{
		ID:                   id,
		DisplayName:          displayName,
		Description:          description,
		Category:             category,
		Version:              version,
		TaskType:             id,
		ImplementationStatus: status,
		InputSchema:          map[string]interface{}{"type": "object"},
		OutputSchema:         map[string]interface{}{"type": "object"},
		ErrorCodes:           []string{},
		Timeout:              "10s",
		Retries:              3,
		Workflows:            []string{},
		Tags:                 []string{},
	}
}

// loadRegistry reads path, or returns the embedded registry when path is empty.
func loadRegistry(path string) (*registry.ActivityRegistry, error) {
	if path == "" {
		return registry.Default()
	}
	return registry.LoadRegistry(path)
}

func addActivity(path string, activity *registry.Activity) error {
	if err := validation.ValidateActivityNaming(activity.ID); err != nil {
		return err
	}

	reg, err := registry.LoadRegistry(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to load registry: %w", err)
		}
		reg = &registry.ActivityRegistry{Version: "1.0.0", Activities: []registry.Activity{}}
	}

	for _, existing := range reg.Activities {
		if existing.ID == activity.ID {
			return fmt.Errorf("activity with ID %s already exists", activity.ID)
		}
	}

	reg.Activities = append(reg.Activities, *activity)
	reg.LastUpdated = time.Now().UTC().Format(time.RFC3339)
	return saveRegistry(reg, path)
}

func updateActivity(path, id, field, value string) error {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	idx := -1
	for i := range reg.Activities {
		if reg.Activities[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("activity with ID %s not found", id)
	}

	activity := &reg.Activities[idx]
	switch field {
	case "status":
		activity.ImplementationStatus = value
	case "version":
		activity.Version = value
	case "displayName":
		activity.DisplayName = value
	case "description":
		activity.Description = value
	case "category":
		activity.Category = value
	case "timeout":
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid timeout value: %w", err)
		}
		activity.Timeout = value
	case "retries":
		retries, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid retries value: %w", err)
		}
		activity.Retries = retries
	default:
		return fmt.Errorf("unknown field: %s", field)
	}

	reg.LastUpdated = time.Now().UTC().Format(time.RFC3339)
	return saveRegistry(reg, path)
}

// validateRegistry checks structure, schemas and activity naming.
func validateRegistry(path string) (int, error) {
	reg, err := loadRegistry(path)
	if err != nil {
		return 0, fmt.Errorf("failed to load registry: %w", err)
	}
	if len(reg.Activities) == 0 {
		return 0, fmt.Errorf("registry contains no activities")
	}
	if err := reg.Validate(); err != nil {
		return 0, err
	}

	var problems []string
	for _, activity := range reg.Activities {
		if err := validation.ValidateActivityNaming(activity.ID); err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", activity.ID, err))
		}
		if activity.Category == "" {
			problems = append(problems, fmt.Sprintf("%s: missing category", activity.ID))
		}
	}
	if len(problems) > 0 {
		return 0, fmt.Errorf("%s", strings.Join(problems, "; "))
	}
	return len(reg.Activities), nil
}

func listActivities(path string, out io.Writer) error {
	reg, err := loadRegistry(path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TASK TYPE\tCATEGORY\tSTATUS\tTIMEOUT\tRETRIES")
	for _, a := range reg.Activities {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", a.TaskType, a.Category, a.ImplementationStatus, a.Timeout, a.Retries)
	}
	return tw.Flush()
}

// checkVariables validates a job variables file against the embedded schemas.
func checkVariables(taskType, inputPath string, out io.Writer) error {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	var variables map[string]interface{}
	if err := json.Unmarshal(data, &variables); err != nil {
		return fmt.Errorf("input is not a JSON object: %w", err)
	}

	v, err := validation.NewDefaultValidator()
	if err != nil {
		return err
	}
	result, err := v.ValidateInput(taskType, variables)
	if err != nil {
		return err
	}
	if !result.Valid {
		for _, msg := range result.GetErrorMessages() {
			fmt.Fprintf(out, "  %s\n", msg)
		}
		return fmt.Errorf("%d validation error(s) for %s", len(result.Errors), taskType)
	}
	fmt.Fprintf(out, "Variables are valid for %s.\n", taskType)
	return nil
}

func saveRegistry(reg *registry.ActivityRegistry, path string) error {
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write registry file: %w", err)
	}
	return nil
}
