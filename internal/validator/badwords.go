package validator

import "strings"

// CommentWarning is the field error shown when a comment contains a banned word.
const CommentWarning = "Не ругайтесь!"

// BadWords is the comment denylist. Entries are lower case.
var BadWords = []string{"редиска", "негодяй"}

// ContainsBanned reports whether text contains any of BadWords,
// ignoring case. Matching is by substring, so "Редиска!" and
// "негодяйский" are both caught.
func ContainsBanned(text string) bool {
	lower := strings.ToLower(text)
	for _, w := range BadWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}
