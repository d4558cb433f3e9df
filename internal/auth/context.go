package auth

import (
	"context"
	"time"
)

// Subject is the immutable authenticated identity threaded through a
// request. TokenIssuedAt is kept so consumers can reject tokens minted
// before the subject's last password change.
type Subject struct {
	UserID        string
	TokenIssuedAt time.Time
}

type subjectContextKey struct{}

// ContextWithSubject attaches the authenticated subject to the context.
func ContextWithSubject(ctx context.Context, sub Subject) context.Context {
	return context.WithValue(ctx, subjectContextKey{}, sub)
}

// SubjectFromContext extracts the authenticated subject from the context.
func SubjectFromContext(ctx context.Context) (Subject, bool) {
	if ctx == nil {
		return Subject{}, false
	}
	sub, ok := ctx.Value(subjectContextKey{}).(Subject)
	if !ok || sub.UserID == "" {
		return Subject{}, false
	}
	return sub, true
}
