package specification

import "strings"

// likeEscaper neutralizes LIKE metacharacters so user input matches
// literally once wrapped in wildcards.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func keywordPattern(term string) string {
	term = strings.TrimSpace(term)
	if term == "" {
		return ""
	}
	return "%" + likeEscaper.Replace(term) + "%"
}

func tagPattern(tag string) string {
	return `%"` + likeEscaper.Replace(tag) + `"%`
}
