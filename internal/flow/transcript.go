package flow

import "strings"

// transcriptTurnMaxRunes caps each rendered turn so prompt context stays
// small regardless of how verbose the interview gets.
const transcriptTurnMaxRunes = 200

// Transcript renders the last maxTurns memory entries as "User:"/"AI:" lines
// for prompt context.
func Transcript(s *Session, maxTurns int) string {
	recent := s.RecentMemory(maxTurns)
	if len(recent) == 0 {
		return ""
	}

	lines := make([]string, 0, len(recent))
	for _, turn := range recent {
		role := "AI"
		if turn.Role == "user" {
			role = "User"
		}
		content := turn.Content
		if runes := []rune(content); len(runes) > transcriptTurnMaxRunes {
			content = string(runes[:transcriptTurnMaxRunes]) + "..."
		}
		lines = append(lines, role+": "+content)
	}
	return strings.Join(lines, "\n")
}
