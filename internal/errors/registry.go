package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Detail     string
	Suggestion string
	DocURL     string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Hook Errors (L001-L009)
	// ============================================

	"L001": {
		Category:   CategoryHooks,
		Message:    "Hook count changed between renders",
		Detail:     "A component called the local-state accessor a different number of times than on its previous render. Hooks are identified by call order only.",
		Suggestion: "Call hooks unconditionally at the top of the render function.",
		DocURL:     "https://loom.vango.dev/errors/L001",
	},
	"L002": {
		Category:   CategoryHooks,
		Message:    "Hook kind changed between renders",
		Detail:     "The hook at this call index was a different kind of hook on the previous render.",
		Suggestion: "Keep hook calls in the same order on every render; never call them inside if/for blocks.",
		DocURL:     "https://loom.vango.dev/errors/L002",
	},
	"L003": {
		Category:   CategoryHooks,
		Message:    "State updated before the first commit",
		Detail:     "An updater was invoked while the runtime has no committed tree to re-render from.",
		Suggestion: "Only call updaters from event handlers or after Render has been flushed.",
		DocURL:     "https://loom.vango.dev/errors/L003",
	},
	"L004": {
		Category:   CategoryHooks,
		Message:    "Hook called outside a component render",
		Detail:     "The scope passed to a hook does not belong to a component that is currently rendering.",
		DocURL:     "https://loom.vango.dev/errors/L004",
	},

	// ============================================
	// Commit Errors (L010-L019)
	// ============================================

	"L010": {
		Category:   CategoryCommit,
		Message:    "Backend rejected a mutation during commit",
		Detail:     "The retained-tree backend returned an error. The generation was not promoted and the retained tree may be partially updated.",
		Suggestion: "Render the whole tree again to resynchronise the retained tree.",
		DocURL:     "https://loom.vango.dev/errors/L010",
	},
	"L011": {
		Category: CategoryCommit,
		Message:  "No retained-tree ancestor",
		Detail:   "A fiber has no ancestor owning a retained node. The root fiber must own the container.",
		DocURL:   "https://loom.vango.dev/errors/L011",
	},

	// ============================================
	// Scheduler Errors (L020-L029)
	// ============================================

	"L020": {
		Category:   CategorySchedule,
		Message:    "Render called without a container",
		Suggestion: "Pass the retained node that should host the tree, e.g. doc.Container().",
		DocURL:     "https://loom.vango.dev/errors/L020",
	},
	"L021": {
		Category: CategorySchedule,
		Message:  "Render called with a nil element",
		DocURL:   "https://loom.vango.dev/errors/L021",
	},

	// ============================================
	// Config Errors (L040-L049)
	// ============================================

	"L040": {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
		Detail:   "loom.json or loom.yaml could not be parsed.",
		DocURL:   "https://loom.vango.dev/errors/L040",
	},
	"L041": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
		DocURL:   "https://loom.vango.dev/errors/L041",
	},

	// ============================================
	// CLI Errors (L060-L069)
	// ============================================

	"L060": {
		Category: CategoryCLI,
		Message:  "Snapshot upload failed",
		DocURL:   "https://loom.vango.dev/errors/L060",
	},
	"L061": {
		Category: CategoryCLI,
		Message:  "Invalid snapshot target",
		Detail:   "Targets are a file path or an s3://bucket/key URL.",
		DocURL:   "https://loom.vango.dev/errors/L061",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
