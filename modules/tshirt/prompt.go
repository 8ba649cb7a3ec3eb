package tshirt

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

const refinementTemplate = "Turn this idea into a detailed t-shirt design prompt: %s"

// BuildRefinementInstruction - instruction sent to Gemini for one idea
func BuildRefinementInstruction(idea string) string {
	return fmt.Sprintf(refinementTemplate, idea)
}

// IdeaHash - 64-bit xxHash of the idea as 16 lowercase hex digits.
// Stable across restarts and builds, so one idea always maps to one file.
func IdeaHash(idea string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(idea))
}

// FileNameForIdea - tshirt_<hash>.<ext>
func FileNameForIdea(idea, ext string) string {
	return fileNamePrefix + IdeaHash(idea) + "." + ext
}

func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen]) + "..."
}
