package rename

import "strings"

// ForbiddenCharacters are the characters a remote file name may not contain
const ForbiddenCharacters = `/\:?*"<>|`

// User-facing messages. The three families (illegal name, remote conflict,
// connectivity) must stay distinguishable.
const (
	MessageIllegalCharacters = "Filename contains illegal characters."
	MessageConflict          = "Can not rename file because file with the same name does already exist on the server. Please pick another name."
	MessageConnectivity      = "Could not rename file. Please make sure you are connected to the server."
	descriptionFormat        = "The file %s could not be synced because it contains characters which are not allowed on this system."
)

// Rule identifies which validation rule rejected a candidate
type Rule int

const (
	RuleNone Rule = iota
	RuleEmpty
	RuleForbiddenCharacter
	RuleTrailingDot
	RuleUnchanged
)

func (r Rule) String() string {
	switch r {
	case RuleNone:
		return "none"
	case RuleEmpty:
		return "empty"
	case RuleForbiddenCharacter:
		return "forbidden character"
	case RuleTrailingDot:
		return "trailing dot"
	case RuleUnchanged:
		return "unchanged"
	default:
		return "unknown"
	}
}

// ValidationResult is the verdict on a candidate name. Reason is empty when
// valid. It says nothing about the remote; see Snapshot.ConfirmEnabled.
type ValidationResult struct {
	Valid  bool
	Reason string
	Rule   Rule
}

// Validate checks candidate against the forbidden-character set and the
// structural rules. Every rejection carries the same illegal-characters
// message; Rule tells them apart for callers that need to.
func Validate(candidate, original string) ValidationResult {
	rule := RuleNone
	switch {
	case candidate == "":
		rule = RuleEmpty
	case strings.ContainsAny(candidate, ForbiddenCharacters):
		rule = RuleForbiddenCharacter
	case strings.HasSuffix(candidate, "."):
		rule = RuleTrailingDot
	case candidate == original:
		rule = RuleUnchanged
	}

	if rule != RuleNone {
		return ValidationResult{Valid: false, Reason: MessageIllegalCharacters, Rule: rule}
	}
	return ValidationResult{Valid: true}
}
