// pkg/registry/registry.go
package registry

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed activity-registry.json
var embeddedRegistry []byte

var (
	defaultOnce sync.Once
	defaultReg  *ActivityRegistry
	defaultErr  error
)

// Default returns the registry compiled into the binary.
func Default() (*ActivityRegistry, error) {
	defaultOnce.Do(func() {
		defaultReg, defaultErr = Parse(embeddedRegistry)
	})
	return defaultReg, defaultErr
}

// MustDefault panics if the embedded registry is malformed.
func MustDefault() *ActivityRegistry {
	reg, err := Default()
	if err != nil {
		panic(err)
	}
	return reg
}

func Parse(data []byte) (*ActivityRegistry, error) {
	var reg ActivityRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("failed to parse activity registry: %w", err)
	}
	return &reg, nil
}

func LoadRegistry(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Find looks up an activity by task type.
func (r *ActivityRegistry) Find(taskType string) (Activity, bool) {
	for _, a := range r.Activities {
		if a.TaskType == taskType {
			return a, true
		}
	}
	return Activity{}, false
}

func (r *ActivityRegistry) TaskTypes() []string {
	out := make([]string, 0, len(r.Activities))
	for _, a := range r.Activities {
		out = append(out, a.TaskType)
	}
	return out
}

// Validate checks ids and task types are unique, required fields are set
// and every schema compiles.
func (r *ActivityRegistry) Validate() error {
	var problems []string
	ids := make(map[string]bool, len(r.Activities))
	taskTypes := make(map[string]bool, len(r.Activities))

	for i, a := range r.Activities {
		label := a.ID
		if label == "" {
			label = fmt.Sprintf("activities[%d]", i)
		}
		if a.ID == "" {
			problems = append(problems, label+": missing id")
		} else if ids[a.ID] {
			problems = append(problems, label+": duplicate id")
		}
		ids[a.ID] = true

		if a.TaskType == "" {
			problems = append(problems, label+": missing taskType")
		} else if taskTypes[a.TaskType] {
			problems = append(problems, label+": duplicate taskType "+a.TaskType)
		}
		taskTypes[a.TaskType] = true

		if a.DisplayName == "" {
			problems = append(problems, label+": missing displayName")
		}
		if a.Retries < 0 {
			problems = append(problems, label+": retries must not be negative")
		}
		if a.InputSchema == nil {
			problems = append(problems, label+": missing inputSchema")
		} else if _, err := CompileSchema(a.InputSchema); err != nil {
			problems = append(problems, fmt.Sprintf("%s: invalid inputSchema: %v", label, err))
		}
		if a.OutputSchema != nil {
			if _, err := CompileSchema(a.OutputSchema); err != nil {
				problems = append(problems, fmt.Sprintf("%s: invalid outputSchema: %v", label, err))
			}
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("activity registry is invalid: %s", strings.Join(problems, "; "))
	}
	return nil
}

func CompileSchema(schema map[string]interface{}) (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewGoLoader(schema))
}
