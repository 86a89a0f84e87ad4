package systems

// SystemInfo describes a frame phase for UI display.
type SystemInfo struct {
	ID          string // Internal identifier (used for perf tracking)
	Name        string // Display name
	Description string // What this system does
}

// SystemRegistry holds metadata about all frame phases.
// This centralizes naming so the UI and perf tracker stay in sync.
type SystemRegistry struct {
	systems []SystemInfo
	byID    map[string]SystemInfo
}

// NewSystemRegistry creates a registry with all known phases.
func NewSystemRegistry() *SystemRegistry {
	r := &SystemRegistry{byID: make(map[string]SystemInfo)}
	r.Register(SystemInfo{ID: "tension", Name: "Tension", Description: "Samples the raw cell and smooths it"})
	r.Register(SystemInfo{ID: "morph", Name: "Morph", Description: "Moves particles toward the scaled targets"})
	r.Register(SystemInfo{ID: "scene", Name: "Scene", Description: "Applies queued shape and colour changes"})
	r.Register(SystemInfo{ID: "telemetry", Name: "Telemetry", Description: "Collects window statistics"})
	return r
}

// Register adds a system to the registry.
func (r *SystemRegistry) Register(info SystemInfo) {
	if _, ok := r.byID[info.ID]; !ok {
		r.systems = append(r.systems, info)
	}
	r.byID[info.ID] = info
}

// Get returns system info by ID.
func (r *SystemRegistry) Get(id string) (SystemInfo, bool) {
	info, ok := r.byID[id]
	return info, ok
}

// GetName returns the display name for a system ID.
// Falls back to the ID itself if not found.
func (r *SystemRegistry) GetName(id string) string {
	if info, ok := r.byID[id]; ok {
		return info.Name
	}
	return id
}

// IDs returns all system IDs in registration order.
func (r *SystemRegistry) IDs() []string {
	ids := make([]string, len(r.systems))
	for i, info := range r.systems {
		ids[i] = info.ID
	}
	return ids
}
