package constants

// DocStatus is the canonical lifecycle state for a processed document.
type DocStatus string

// Stable values (these exact strings cross the API boundary).
const (
	DocStatusPending    DocStatus = "pending"    // uploaded, not yet picked up
	DocStatusProcessing DocStatus = "processing" // classify/extract call in flight
	DocStatusReview     DocStatus = "review"     // extracted, awaiting human verification
	DocStatusCompleted  DocStatus = "completed"  // verified and confirmed (terminal)
	DocStatusError      DocStatus = "error"      // extraction failed (terminal)
)

// TemplateUnknown is the classifier's sentinel for "no template matched".
// It is mapped to an absent template id on the document; it never appears
// as a stored template reference.
const TemplateUnknown = "unknown"
