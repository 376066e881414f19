package optimizer

// The logical names of the four runtime helpers the rewritten
// component calls. The optimizer never hardcodes these strings
// directly — it asks the active preset.ImportResolver to resolve them,
// so the emitted calls reference whatever local identifier the import
// resolver dedupes them to at file scope.
const (
	RuntimeCache  = "cache"
	RuntimeRef    = "ref"
	RuntimeBranch = "branch"
	RuntimeEquals = "equals"
)
