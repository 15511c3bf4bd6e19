package port

// XDGPaths provides XDG Base Directory paths.
type XDGPaths interface {
	ConfigDir() (string, error)
	DataDir() (string, error)
	StateDir() (string, error)
	CacheDir() (string, error)
	LogDir() (string, error)
	// ManDir is the user man page directory for section 1.
	ManDir() (string, error)
}
