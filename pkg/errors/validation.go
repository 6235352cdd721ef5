package errors

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"
)

// Regex patterns for GitHub resource validation.
var (
	// GitHub usernames/orgs: 1-39 alphanumeric or hyphen, not starting with hyphen
	validOwner = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]{0,38}$`)
	// GitHub repo names: 1-100 alphanumeric, hyphen, underscore, or dot
	validRepo = regexp.MustCompile(`^[a-zA-Z0-9._-]{1,100}$`)
)

// maxQueryLength is GitHub's limit on search query length.
const maxQueryLength = 256

// ValidateQuery validates a code-search query string.
//
// The rules are conservative:
//   - No empty queries
//   - No control characters
//   - Maximum length of 256 characters
func ValidateQuery(q string) error {
	if strings.TrimSpace(q) == "" {
		return New(ErrCodeInvalidQuery, "search query cannot be empty")
	}
	if len(q) > maxQueryLength {
		return New(ErrCodeInvalidQuery, "search query too long (max %d characters)", maxQueryLength)
	}
	for _, r := range q {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidQuery, "search query contains invalid control characters")
		}
	}
	return nil
}

// ParseRepoID splits an "owner/name" repository identifier and validates both parts.
func ParseRepoID(id string) (owner, name string, err error) {
	parts := strings.SplitN(id, "/", 2)
	if len(parts) != 2 {
		return "", "", New(ErrCodeInvalidRepo, "invalid repository %q: use owner/name", id)
	}
	owner, name = parts[0], parts[1]
	if !validOwner.MatchString(owner) {
		return "", "", New(ErrCodeInvalidRepo, "invalid owner %q: must be 1-39 alphanumeric characters or hyphens, cannot start with hyphen", owner)
	}
	if !validRepo.MatchString(name) || name == "." || name == ".." {
		return "", "", New(ErrCodeInvalidRepo, "invalid repository name %q: must be 1-100 alphanumeric characters, hyphens, underscores, or dots", name)
	}
	return owner, name, nil
}

// maxPathLength bounds repository-relative paths accepted from callers.
const maxPathLength = 500

// ValidatePath checks a repository-relative file path before it is joined
// into a raw-content URL. Absolute paths, ".." segments, backslashes and
// control characters are rejected.
func ValidatePath(path string) error {
	switch {
	case path == "":
		return New(ErrCodeInvalidPath, "path cannot be empty")
	case len(path) > maxPathLength:
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	case strings.IndexFunc(path, unicode.IsControl) >= 0:
		return New(ErrCodeInvalidPath, "path contains control characters")
	case strings.HasPrefix(path, "/"):
		return New(ErrCodeInvalidPath, "path %q must be relative to the repository root", path)
	case strings.Contains(path, ".."):
		return New(ErrCodeInvalidPath, "path %q must not contain ..", path)
	case strings.ContainsRune(path, '\\'):
		return New(ErrCodeInvalidPath, "path %q must use forward slashes", path)
	}
	return nil
}

// ValidateURL checks that rawURL is an absolute http or https URL with a host.
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return New(ErrCodeInvalidInput, "%q is not an http(s) URL", rawURL)
	}
	return nil
}
