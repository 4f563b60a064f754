// cmd/tools/worker-generator/generator.go
package main

import (
	"bytes"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"disc-workers/pkg/registry"
)

// WorkerData holds data for templates
type WorkerData struct {
	Name         string
	PackageName  string
	Directory    string
	TaskType     string
	Description  string
	ElementID    string
	InputFields  string
	OutputFields string
	Timeout      string
}

func newWorkerData(a registry.Activity) WorkerData {
	dir := strings.TrimPrefix(a.ID, "disc-")
	return WorkerData{
		Name:         a.DisplayName,
		PackageName:  strings.ReplaceAll(dir, "-", ""),
		Directory:    dir,
		TaskType:     a.TaskType,
		Description:  a.Description,
		ElementID:    "Activity_" + camelCase(dir),
		InputFields:  generateStructFields(a.InputSchema),
		OutputFields: generateStructFields(a.OutputSchema),
		Timeout:      a.Timeout,
	}
}

// Generate writes a worker scaffold for activity under outputDir and returns
// the written paths. Existing files are kept unless force is set.
func Generate(activity registry.Activity, outputDir string, force bool) ([]string, error) {
	data := newWorkerData(activity)
	if data.PackageName == "" {
		return nil, fmt.Errorf("activity %q has no usable package name", activity.ID)
	}

	workerDir := filepath.Join(outputDir, data.Directory)
	if err := os.MkdirAll(workerDir, 0o755); err != nil {
		return nil, fmt.Errorf("create directory: %w", err)
	}

	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	sort.Strings(names)

	var written []string
	for _, name := range names {
		path := filepath.Join(workerDir, name)
		if _, err := os.Stat(path); err == nil && !force {
			return written, fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}

		src, err := render(name, templates[name], data)
		if err != nil {
			return written, err
		}
		if err := os.WriteFile(path, src, 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}

func render(name, text string, data WorkerData) ([]byte, error) {
	tmpl, err := template.New(name).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("execute template %s: %w", name, err)
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("format %s: %w", name, err)
	}
	return src, nil
}

// goTypeFromJSONType maps JSON schema types to Go types
func goTypeFromJSONType(details map[string]interface{}) string {
	jt, _ := details["type"].(string)
	switch jt {
	case "string":
		return "string"
	case "integer":
		return "int"
	case "number":
		return "float64"
	case "boolean":
		return "bool"
	case "object":
		return "map[string]interface{}"
	case "array":
		if items, ok := details["items"].(map[string]interface{}); ok {
			if itemType := goTypeFromJSONType(items); itemType != "interface{}" {
				return "[]" + itemType
			}
		}
		return "[]interface{}"
	default:
		return "interface{}"
	}
}

// generateStructFields renders one field per schema property, sorted by name.
func generateStructFields(schema map[string]interface{}) string {
	props, _ := schema["properties"].(map[string]interface{})
	required := map[string]bool{}
	if list, ok := schema["required"].([]interface{}); ok {
		for _, r := range list {
			if s, ok := r.(string); ok {
				required[s] = true
			}
		}
	}

	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	var fields []string
	for _, name := range names {
		details, ok := props[name].(map[string]interface{})
		if !ok {
			continue
		}
		tag := name
		if !required[name] {
			tag += ",omitempty"
		}
		fields = append(fields, fmt.Sprintf("\t%s %s `json:\"%s\"`", exportedName(name), goTypeFromJSONType(details), tag))
	}
	return strings.Join(fields, "\n")
}

// exportedName turns userId into UserID and questionId into QuestionID.
func exportedName(s string) string {
	if s == "" {
		return s
	}
	s = strings.ToUpper(s[:1]) + s[1:]
	if strings.HasSuffix(s, "Id") {
		s = strings.TrimSuffix(s, "Id") + "ID"
	} else if strings.HasSuffix(s, "Ids") {
		s = strings.TrimSuffix(s, "Ids") + "IDs"
	}
	return s
}

func camelCase(kebab string) string {
	parts := strings.Split(kebab, "-")
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, "")
}
