package stringutils

import "strings"

// INClause builds the placeholder list and argument slice for a SQL "IN (...)" clause.
func INClause[T any](list []T) (placeholders string, args []any) {
	marks := make([]string, len(list))
	args = make([]any, len(list))
	for i, item := range list {
		marks[i] = "?"
		args[i] = item
	}

	return strings.Join(marks, ", "), args
}

// Distinct returns the unique values of list in first-seen order.
func Distinct[T comparable](list []T) []T {
	seen := make(map[T]struct{}, len(list))
	result := make([]T, 0, len(list))
	for _, item := range list {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		result = append(result, item)
	}
	return result
}
