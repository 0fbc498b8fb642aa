package tenant

import "strings"

// Prefix namespaces every tenant collection so application schemas never
// collide with postgres system or extension schemas.
const Prefix = "org_"

// maxCollectionName is the postgres identifier limit (NAMEDATALEN - 1).
const maxCollectionName = 63

// Sanitize derives the tenant collection name for an organization name.
// It lowercases, maps spaces to underscores, drops every other character
// outside [a-z0-9_-], prefixes with Prefix and truncates to the identifier
// limit. Total and deterministic: illegal input is cleaned, never rejected,
// so callers can always compute the target name before attempting creation.
func Sanitize(organizationName string) string {
	name := strings.ToLower(strings.TrimSpace(organizationName))

	var b strings.Builder
	b.Grow(len(Prefix) + len(name))
	b.WriteString(Prefix)

	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('_')
		}
	}

	s := b.String()
	if len(s) > maxCollectionName {
		s = s[:maxCollectionName]
	}

	return s
}
