package entity

// PurgeTargetType identifies a directory removed by `ico256 purge`.
type PurgeTargetType int

const (
	PurgeTargetConfig PurgeTargetType = iota
	PurgeTargetData
	PurgeTargetState
	PurgeTargetCache
)

// PurgeTarget is one removable location and its current footprint.
type PurgeTarget struct {
	Type        PurgeTargetType
	Path        string
	Description string
	Exists      bool
	Size        int64
}

// PurgeResult is the outcome of removing one target.
type PurgeResult struct {
	Target  PurgeTarget
	Success bool
	Error   error
}

// ParsePurgeTargetType maps a CLI name (config, data, state, cache) to its type.
func ParsePurgeTargetType(name string) (PurgeTargetType, bool) {
	switch name {
	case "config":
		return PurgeTargetConfig, true
	case "data":
		return PurgeTargetData, true
	case "state":
		return PurgeTargetState, true
	case "cache":
		return PurgeTargetCache, true
	}
	return 0, false
}
