package rename

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	const original = "fi:le.txt"

	tests := []struct {
		name      string
		candidate string
		wantValid bool
		wantRule  Rule
	}{
		{name: "clean name", candidate: "file.txt", wantValid: true},
		{name: "unicode name", candidate: "résumé 2024.txt", wantValid: true},
		{name: "inner dots", candidate: "archive.tar.gz", wantValid: true},
		{name: "leading dot", candidate: ".hidden", wantValid: true},
		{name: "empty", candidate: "", wantRule: RuleEmpty},
		{name: "slash", candidate: "a/b.txt", wantRule: RuleForbiddenCharacter},
		{name: "backslash", candidate: `a\b.txt`, wantRule: RuleForbiddenCharacter},
		{name: "colon", candidate: "a:b.txt", wantRule: RuleForbiddenCharacter},
		{name: "question mark", candidate: "file?.txt", wantRule: RuleForbiddenCharacter},
		{name: "asterisk", candidate: "*.txt", wantRule: RuleForbiddenCharacter},
		{name: "double quote", candidate: `"quoted".txt`, wantRule: RuleForbiddenCharacter},
		{name: "less than", candidate: "a<b.txt", wantRule: RuleForbiddenCharacter},
		{name: "greater than", candidate: "a>b.txt", wantRule: RuleForbiddenCharacter},
		{name: "pipe", candidate: "a|b.txt", wantRule: RuleForbiddenCharacter},
		{name: "trailing dot", candidate: "file.", wantRule: RuleTrailingDot},
		{name: "only dots", candidate: "..", wantRule: RuleTrailingDot},
		{name: "unchanged", candidate: original, wantRule: RuleForbiddenCharacter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Validate(tt.candidate, original)
			assert.Equal(t, tt.wantValid, got.Valid)
			if tt.wantValid {
				assert.Empty(t, got.Reason)
				assert.Equal(t, RuleNone, got.Rule)
				return
			}
			assert.Equal(t, MessageIllegalCharacters, got.Reason)
			assert.Equal(t, tt.wantRule, got.Rule)
		})
	}
}

func TestValidateUnchangedOriginal(t *testing.T) {
	// an original that is itself a legal name is still rejected when unchanged
	got := Validate("report.txt", "report.txt")
	assert.False(t, got.Valid)
	assert.Equal(t, RuleUnchanged, got.Rule)
	assert.Equal(t, MessageIllegalCharacters, got.Reason)

	assert.True(t, Validate("Report.txt", "report.txt").Valid, "comparison is case sensitive")
}

func TestValidateIsPure(t *testing.T) {
	for _, candidate := range []string{"file.txt", "file?.txt", "", "x."} {
		first := Validate(candidate, "orig")
		for i := 0; i < 3; i++ {
			assert.Equal(t, first, Validate(candidate, "orig"))
		}
	}
}

func TestMessagesAreDistinct(t *testing.T) {
	messages := []string{MessageIllegalCharacters, MessageConflict, MessageConnectivity}
	seen := map[string]bool{}
	for _, m := range messages {
		assert.NotEmpty(t, m)
		assert.False(t, seen[m], "duplicate message %q", m)
		seen[m] = true
	}
}
