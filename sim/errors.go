package sim

import "fmt"

// A ConfigError reports an invalid construction or wiring request. All
// configuration problems surface eagerly, before the simulation advances.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string {
	return e.Msg
}

// ConfigErrorf builds a ConfigError from a format string.
func ConfigErrorf(format string, args ...any) *ConfigError {
	return &ConfigError{Msg: fmt.Sprintf(format, args...)}
}

// A DependencyError reports a requirement whose prerequisite is not present
// on the entity that must compute it. It is raised at wiring time, never
// during a simulation step.
type DependencyError struct {
	EntityID int
	Req      ReqTag
	Missing  ReqTag
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf(
		"unit %d: requirement %s needs %s, which is not active",
		e.EntityID, e.Req, e.Missing)
}

// A ModelError reports a request for an unregistered model kind.
type ModelError struct {
	Category string // "unit", "synapse", or "plant"
	Kind     string
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("unknown %s model kind %q", e.Category, e.Kind)
}
