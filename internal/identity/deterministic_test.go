package identity_test

import (
	"testing"

	"github.com/goliatone/go-composer/internal/identity"
	"github.com/google/uuid"
)

func TestTemplateUUIDIsStableAndCaseInsensitive(t *testing.T) {
	first := identity.TemplateUUID("hero")
	second := identity.TemplateUUID("  HERO ")
	if first == uuid.Nil {
		t.Fatalf("expected non nil uuid")
	}
	if first != second {
		t.Fatalf("expected stable ids, got %s and %s", first, second)
	}
}

func TestIdentifiersDoNotCollideAcrossKinds(t *testing.T) {
	if identity.TemplateUUID("home") == identity.PageUUID("home") {
		t.Fatalf("template and page ids collided")
	}
	if identity.UUID("   ") != uuid.Nil {
		t.Fatalf("expected nil uuid for blank key")
	}
}
