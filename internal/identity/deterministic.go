package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Keys are prefixed by entity kind so identifiers never collide across kinds.
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// TemplateUUID is the catalog identifier of a block template slug.
func TemplateUUID(slug string) uuid.UUID {
	return UUID("go-composer:template:" + strings.ToLower(strings.TrimSpace(slug)))
}

// PageUUID is the identifier of a page addressed by a stable slug, such as a
// seed document's frontmatter slug.
func PageUUID(slug string) uuid.UUID {
	return UUID("go-composer:page:" + strings.ToLower(strings.TrimSpace(slug)))
}
