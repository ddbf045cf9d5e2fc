// pkg/registry/schema.go
package registry

// Catalog lists the job types a worker process implements, for process
// modelers wiring service tasks.
type Catalog struct {
	Version     string     `json:"version"`
	LastUpdated string     `json:"lastUpdated"`
	Activities  []Activity `json:"activities"`
}

type Activity struct {
	TaskType    string                 `json:"taskType"`
	DisplayName string                 `json:"displayName"`
	Description string                 `json:"description"`
	Category    string                 `json:"category"`
	InputSchema map[string]interface{} `json:"inputSchema"`
	ErrorCodes  []string               `json:"errorCodes"`
	Timeout     string                 `json:"timeout"`
	Retries     int                    `json:"retries"`
	Enabled     bool                   `json:"enabled"`
}

// Definition is what a worker package declares about itself. InputSchema is
// the raw JSON Schema document the worker validates job variables against.
type Definition struct {
	TaskType    string
	DisplayName string
	Description string
	Category    string
	InputSchema string
	ErrorCodes  []string
}
