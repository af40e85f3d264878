package domain

// TranslationTableEntry is one row of a static dictionary table, keyed by
// the exact raw target-language word.
type TranslationTableEntry struct {
	BaseForm string `json:"baseForm"`
	// Example is a sentence in the target language using the word.
	Example string `json:"example"`
	// BaseExample is the example translated into the base language. Optional.
	BaseExample string `json:"baseExample,omitempty"`
}

// TranslationResult is the outcome of a lookup: either a resolved value
// found in some tier, or the original word echoed back.
type TranslationResult struct {
	value    string
	tier     ResolutionTier
	resolved bool
}

// Resolved creates a result carrying a real translation.
func Resolved(value string, tier ResolutionTier) TranslationResult {
	return TranslationResult{value: value, tier: tier, resolved: true}
}

// Unresolved creates a result that echoes the original word.
func Unresolved(original string) TranslationResult {
	return TranslationResult{value: original, tier: TierNone}
}

// Synthesized creates a result built from a template rather than looked up.
// It is not resolved: no table held the value.
func Synthesized(value string) TranslationResult {
	return TranslationResult{value: value, tier: TierTemplate}
}

// Value returns the translation, or the original word when unresolved.
func (r TranslationResult) Value() string { return r.value }

// IsResolved reports whether a lookup tier produced the value.
func (r TranslationResult) IsResolved() bool { return r.resolved }

// Tier returns the tier that produced the value (TierNone when unresolved).
func (r TranslationResult) Tier() ResolutionTier { return r.tier }
