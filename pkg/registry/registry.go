// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// Registry is a concurrency-safe Catalog.
type Registry struct {
	mu      sync.RWMutex
	catalog Catalog
}

func New(version string) *Registry {
	return &Registry{catalog: Catalog{Version: version, Activities: []Activity{}}}
}

// Register adds a worker's definition with its effective runtime settings.
func (r *Registry) Register(def Definition, enabled bool, timeout time.Duration, retries int) error {
	if def.TaskType == "" {
		return fmt.Errorf("registry: task type is required")
	}

	var schema map[string]interface{}
	if def.InputSchema != "" {
		if err := json.Unmarshal([]byte(def.InputSchema), &schema); err != nil {
			return fmt.Errorf("registry: input schema for %s: %w", def.TaskType, err)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.catalog.Activities {
		if a.TaskType == def.TaskType {
			return fmt.Errorf("registry: %s already registered", def.TaskType)
		}
	}
	r.catalog.Activities = append(r.catalog.Activities, Activity{
		TaskType:    def.TaskType,
		DisplayName: def.DisplayName,
		Description: def.Description,
		Category:    def.Category,
		InputSchema: schema,
		ErrorCodes:  append([]string(nil), def.ErrorCodes...),
		Timeout:     timeout.String(),
		Retries:     retries,
		Enabled:     enabled,
	})
	r.catalog.LastUpdated = time.Now().UTC().Format(time.RFC3339)
	return nil
}

func (r *Registry) Find(taskType string) (Activity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.catalog.Activities {
		if a.TaskType == taskType {
			return a, true
		}
	}
	return Activity{}, false
}

// Snapshot returns a copy of the catalog.
func (r *Registry) Snapshot() Catalog {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c := r.catalog
	c.Activities = append([]Activity(nil), r.catalog.Activities...)
	return c
}
