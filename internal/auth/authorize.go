package auth

import "strings"

// Authorize reports whether subjectID may mutate a resource owned by
// ownerID. Equality is the only rule; there is no role hierarchy or
// delegation. The subject must come from the verified request context,
// never from client-supplied input.
func Authorize(subjectID, ownerID string) error {
	if strings.TrimSpace(subjectID) == "" {
		return ErrUnauthorized
	}
	if subjectID != ownerID {
		return ErrForbidden
	}
	return nil
}
