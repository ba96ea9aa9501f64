package repo

import "strings"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike neutralises LIKE wildcards in user-supplied search terms.
func escapeLike(s string) string { return likeEscaper.Replace(s) }
