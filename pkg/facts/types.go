package facts

// CommentSigil marks a dropped line; a line whose first two characters
// are the sigil never reaches classification.
const CommentSigil = "//"

// MaxContextChars is the hard ceiling a numeric $context directive is
// clamped to.
const MaxContextChars = 100000

// DirectiveKind tags the directive carried by a processed fact.
type DirectiveKind string

const (
	DirectiveNone       DirectiveKind = ""            // Plain fact
	DirectiveRespond    DirectiveKind = "respond"     // Response gating
	DirectiveRetry      DirectiveKind = "retry"       // Reschedule with delay
	DirectiveAvatar     DirectiveKind = "avatar"      // Presentation override
	DirectiveEntityLock DirectiveKind = "locked"      // Entity-level lock
	DirectiveStream     DirectiveKind = "stream"      // Streaming mode
	DirectiveMemory     DirectiveKind = "memory"      // Memory scope
	DirectiveContext    DirectiveKind = "context"     // Message-inclusion filter
	DirectiveFreeform   DirectiveKind = "freeform"    // Disable structured output parsing
	DirectiveModel      DirectiveKind = "model"       // Model selection
	DirectiveStrip      DirectiveKind = "strip"       // Output stripping
	DirectivePermission DirectiveKind = "permission"  // Access lists
)

// MemoryScope is the $memory directive payload.
type MemoryScope string

const (
	MemoryNone    MemoryScope = "none"
	MemoryChannel MemoryScope = "channel"
	MemoryGuild   MemoryScope = "guild"
	MemoryGlobal  MemoryScope = "global"
)

// StreamSpec is the $stream directive payload. With Full unset, output
// batches by delimiter and emits only on completion; Full emits
// progressively. Multiple quoted delimiters are unioned; newline is the
// default when none are given.
type StreamSpec struct {
	Full       bool
	Delimiters []string
}

// ModelSpec is the $model directive payload: provider:model.
type ModelSpec struct {
	Provider string
	Model    string
}

// StripSpec is the $strip directive payload. A bare $strip explicitly
// disables default stripping, which is distinct from no directive being
// present; quoted forms collect patterns.
type StripSpec struct {
	Disabled bool
	Patterns []string
}

// PermissionKind identifies which access list a permission directive
// configures.
type PermissionKind string

const (
	PermissionEdit      PermissionKind = "edit"
	PermissionView      PermissionKind = "view"
	PermissionBlacklist PermissionKind = "blacklist"
	PermissionUse       PermissionKind = "use"
)

// PermissionList is one access list: either the everyone sentinel or a
// set of user/role entries.
type PermissionList struct {
	Everyone bool
	Entries  []string
}

// PermissionDirective is the payload of $edit/$view/$blacklist/$use.
type PermissionDirective struct {
	Kind PermissionKind
	List PermissionList
}

// ProcessedFact is the result of classifying one fact line.
type ProcessedFact struct {
	// Content is the visible text for plain facts.
	Content string

	// Conditional is set when a $if guard gates the line; Guard holds
	// the guard expression text.
	Conditional bool
	Guard       string

	// Locked marks a fact wrapped by $locked; the content stays
	// visible but is recorded in the locked-content set.
	Locked bool

	// Directive tags the payload; DirectiveNone is a plain fact.
	Directive DirectiveKind

	Respond    bool
	RetryMS    int
	Avatar     string
	Stream     *StreamSpec
	Memory     MemoryScope
	Filter     string
	Model      *ModelSpec
	Strip      *StripSpec
	Permission *PermissionDirective
}

// EvaluatedFacts is the aggregate result of evaluating a fact list
// against a context.
type EvaluatedFacts struct {
	// Facts is the visible fact list, original order preserved.
	Facts []string

	// Respond is the response decision: nil when no $respond directive
	// passed, otherwise the last passing value. RespondSource records
	// the line that decided it.
	Respond       *bool
	RespondSource string

	// RetryMS is the reschedule delay; nil when no $retry passed.
	RetryMS *int

	Avatar       string
	EntityLocked bool

	// LockedFacts is the set of visible fact contents that are locked.
	LockedFacts map[string]bool

	Stream   *StreamSpec
	Memory   MemoryScope
	Filter   string
	Freeform bool
	Model    *ModelSpec
	Strip    *StripSpec
}
