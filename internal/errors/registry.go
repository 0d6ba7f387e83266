package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Driver Errors (E001-E019)
	// ============================================

	"E001": {
		Category: CategoryDriver,
		Message:  "Driver callback failed",
		Detail:   "The backend rejected a resource operation. The pass was aborted and the partially diffed tree must be discarded.",
	},
	"E002": {
		Category: CategoryDriver,
		Message:  "Backing resource missing",
		Detail:   "A node expected to own a backing resource has an empty driver store. The node was never mounted or its resource was already released.",
	},
	"E003": {
		Category: CategoryDriver,
		Message:  "Unknown backing node",
		Detail:   "The backend was handed a node handle it did not create or has already destroyed.",
	},

	// ============================================
	// Contract Violations (E020-E029)
	// ============================================

	"E020": {
		Category: CategoryContract,
		Message:  "Attribute list restructured",
		Detail:   "Attribute lists are positional: the same tag must declare the same attribute names in the same order on every render. Use a null value to drop an attribute.",
	},
	"E021": {
		Category: CategoryContract,
		Message:  "Static text changed",
		Detail:   "A text node declared static must keep the same content across renders. Use a dynamic text node for changing content.",
	},
	"E022": {
		Category: CategoryContract,
		Message:  "Duplicate key in node list",
		Detail:   "Two entries of the same node list resolve to the same identity. Keys must be unique among siblings.",
	},
	"E023": {
		Category: CategoryContract,
		Message:  "Component instance already borrowed",
		Detail:   "A component instance was mutably borrowed while another borrow was outstanding. Queue the update with Ctx.Update instead of mutating during render.",
	},
	"E024": {
		Category: CategoryContract,
		Message:  "Re-entrant render pass",
		Detail:   "Visit and Diff must not be re-entered while a pass is running. Self-updates are queued and applied after the pass.",
	},
	"E025": {
		Category: CategoryContract,
		Message:  "Component snapshot missing",
		Detail:   "A component was diffed against an ancestor that was never rendered.",
	},

	// ============================================
	// Component Errors (E030-E039)
	// ============================================

	"E030": {
		Category: CategoryComponent,
		Message:  "Component render failed",
		Detail:   "A component's Render panicked. The enclosing pass was aborted.",
	},
	"E031": {
		Category: CategoryComponent,
		Message:  "Component constructor failed",
		Detail:   "A component's constructor panicked while the component was first mounted.",
	},
	"E032": {
		Category: CategoryComponent,
		Message:  "Application failed",
		Detail:   "A previous render pass failed and the application refuses further passes until it is reset.",
	},

	// ============================================
	// Protocol Errors (E040-E049)
	// ============================================

	"E040": {
		Category: CategoryProtocol,
		Message:  "Malformed frame",
		Detail:   "A frame header, patch batch or event payload could not be decoded.",
	},
	"E041": {
		Category: CategoryProtocol,
		Message:  "Unknown patch operation",
		Detail:   "The patch frame contains an operation code this version does not understand.",
	},
	"E042": {
		Category: CategoryProtocol,
		Message:  "WebSocket write failed",
		Detail:   "Sending a patch frame to the client failed. The session was closed.",
	},
	"E043": {
		Category: CategoryProtocol,
		Message:  "Patch frame out of sequence",
		Detail:   "A patch batch arrived with a sequence number other than the next expected one.",
	},

	// ============================================
	// Configuration Errors (E050-E059)
	// ============================================

	"E050": {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
		Detail:   "vtree.yaml could not be read or parsed.",
	},
	"E051": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
		Detail:   "A configuration value is out of range.",
	},

	// ============================================
	// CLI Errors (E060-E069)
	// ============================================

	"E060": {
		Category: CategoryCLI,
		Message:  "Invalid tree document",
		Detail:   "The tree document could not be parsed into a node list.",
	},
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// AllCodes returns all registered error codes.
func AllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// ByCategory returns all error codes in a category.
func ByCategory(cat Category) []string {
	var codes []string
	for code, template := range registry {
		if template.Category == cat {
			codes = append(codes, code)
		}
	}
	return codes
}
