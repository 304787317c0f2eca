package packset

// PathFilter selects logical paths for processing.
type PathFilter interface {
	// Matches reports whether the path should be processed. Paths are
	// forward-slash relative, as they appear in catalogs.
	Matches(path string) bool
}

// MatchFunc adapts a plain function to the PathFilter interface.
type MatchFunc func(path string) bool

// Matches calls f(path).
func (f MatchFunc) Matches(path string) bool {
	return f(path)
}

// AcceptAll matches every path. It is what a nil Config.Filter means.
var AcceptAll PathFilter = MatchFunc(func(string) bool { return true })

// Interface compliance.
var _ PathFilter = MatchFunc(nil)
