package types

// DiscoveryRequest selects candidate files: the explicit paths when any are
// given, otherwise a walk of Root that prunes ExcludeDirs by name.
type DiscoveryRequest struct {
	Explicit    []string
	Root        string
	ExcludeDirs []string
}
