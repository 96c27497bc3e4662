package constants

// ProcessingMethod records which extractor produced a record.
// Stable values (stored as-is in processing_method).
type ProcessingMethod string

const (
	MethodNative ProcessingMethod = "native"
	MethodGPT    ProcessingMethod = "gpt"
)

// MethodChoice is the caller's routing override for a run.
type MethodChoice string

const (
	ChoiceAuto   MethodChoice = "auto"   // classifier decides
	ChoiceNative MethodChoice = "native" // always rule-based
	ChoiceGPT    MethodChoice = "gpt"    // always LLM
)

// ParseMethodChoice returns the choice for s, and false if s is not recognised.
func ParseMethodChoice(s string) (MethodChoice, bool) {
	switch MethodChoice(s) {
	case ChoiceAuto, ChoiceNative, ChoiceGPT:
		return MethodChoice(s), true
	case "":
		return ChoiceAuto, true
	}
	return "", false
}

// ExtractState is the extractor-selection state of a pipeline run.
type ExtractState string

const (
	StateUnclassified ExtractState = "UNCLASSIFIED"
	StateNativeChosen ExtractState = "NATIVE_CHOSEN"
	StateLLMChosen    ExtractState = "LLM_CHOSEN"
	StateExtracted    ExtractState = "EXTRACTED" // terminal
	StateFailed       ExtractState = "FAILED"    // terminal
)

// Terminal reports whether no further transition is allowed from s.
func (s ExtractState) Terminal() bool {
	return s == StateExtracted || s == StateFailed
}
