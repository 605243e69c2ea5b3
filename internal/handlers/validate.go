package handlers

import (
	"strings"
	"unicode/utf8"
)

// Validation limits for request fields.
const (
	maxNameLen        = 200
	maxEmailLen       = 320
	maxTitleLen       = 300
	maxDescriptionLen = 1_000
	maxContentLen     = 200_000
	maxCommentLen     = 5_000
	maxInstructionLen = 2_000
	maxTopicLen       = 300
)

// validateBlogFields checks blog content lengths and returns the first
// error found. Presence checks happen in the handlers, where the exact
// required set differs per operation.
func validateBlogFields(title, description, content string) string {
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "Title is too long (max 300 characters)"
	}
	if utf8.RuneCountInString(description) > maxDescriptionLen {
		return "Description is too long (max 1,000 characters)"
	}
	if utf8.RuneCountInString(content) > maxContentLen {
		return "Content is too long (max 200,000 characters)"
	}
	return ""
}

// validateCommentFields checks comment submission lengths.
func validateCommentFields(name, email, content string) string {
	if utf8.RuneCountInString(name) > maxNameLen {
		return "Name is too long (max 200 characters)"
	}
	if utf8.RuneCountInString(email) > maxEmailLen {
		return "Email is too long"
	}
	if !strings.Contains(email, "@") {
		return "Please provide a valid email"
	}
	if utf8.RuneCountInString(content) > maxCommentLen {
		return "Comment is too long (max 5,000 characters)"
	}
	return ""
}
