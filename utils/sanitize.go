package utils

import "github.com/microcosm-cc/bluemonday"

// Contact form fields are plain text, so everything HTML-shaped is stripped.
var sanitizer = bluemonday.StrictPolicy()

// Sanitize removes HTML from user supplied text to prevent stored XSS.
func Sanitize(input string) string {
	return sanitizer.Sanitize(input)
}
