package auth

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestAuthorize(t *testing.T) {
	if err := Authorize("user-a", "user-a"); err != nil {
		t.Fatalf("owner must be allowed: %v", err)
	}
	if err := Authorize("user-b", "user-a"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := Authorize("", "user-a"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for empty subject, got %v", err)
	}
}

func TestSubjectContextRoundTrip(t *testing.T) {
	issued := time.Now().UTC()
	ctx := ContextWithSubject(context.Background(), Subject{UserID: "user-7", TokenIssuedAt: issued})

	sub, ok := SubjectFromContext(ctx)
	if !ok {
		t.Fatal("expected subject in context")
	}
	if sub.UserID != "user-7" || !sub.TokenIssuedAt.Equal(issued) {
		t.Fatalf("unexpected subject: %+v", sub)
	}

	if _, ok := SubjectFromContext(context.Background()); ok {
		t.Fatal("expected no subject in empty context")
	}
}
