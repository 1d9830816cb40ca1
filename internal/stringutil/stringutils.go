package stringutil

import "strings"

// IsAnyBlank reports whether any of values is empty or only whitespace.
func IsAnyBlank(values ...string) bool {
	for _, s := range values {
		if strings.TrimSpace(s) == "" {
			return true
		}
	}
	return false
}

// SplitList splits a comma separated value, trimming entries and dropping empty ones.
func SplitList(value string) []string {
	var list []string
	for _, entry := range strings.Split(value, ",") {
		if entry = strings.TrimSpace(entry); entry != "" {
			list = append(list, entry)
		}
	}
	return list
}
