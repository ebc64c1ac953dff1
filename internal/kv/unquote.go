package kv

import "strings"

// UnquoteUnescape removes one layer of wrapping single or double quotes and then
// resolves the escape sequences `\ `, `\"` and `\'`, in that order. Quotes are only
// stripped when the first and last characters are the same quote character.
func UnquoteUnescape(value string) string {
	if len(value) >= 2 && value[0] == value[len(value)-1] && (value[0] == '"' || value[0] == '\'') {
		value = value[1 : len(value)-1]
	}

	value = strings.ReplaceAll(value, `\ `, " ")
	value = strings.ReplaceAll(value, `\"`, `"`)
	return strings.ReplaceAll(value, `\'`, "'")
}

func unquotePairs(pairs []Pair) []Pair {
	for i := range pairs {
		pairs[i].Key = UnquoteUnescape(pairs[i].Key)
		pairs[i].Value = UnquoteUnescape(pairs[i].Value)
	}
	return pairs
}
