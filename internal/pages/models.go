package pages

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// PageModel stores page level fields.
type PageModel struct {
	bun.BaseModel `bun:"table:composer_pages,alias:cp"`

	ID        string         `bun:",pk" json:"id"`
	Fields    map[string]any `bun:"fields,type:jsonb" json:"fields"`
	CreatedAt time.Time      `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time      `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// BlockModel stores one placed block of a page.
type BlockModel struct {
	bun.BaseModel `bun:"table:composer_blocks,alias:cb"`

	ID         uuid.UUID      `bun:",pk,type:uuid" json:"id"`
	PageID     string         `bun:"page_id,notnull" json:"page_id"`
	TemplateID string         `bun:"template_id,notnull" json:"template_id"`
	Config     map[string]any `bun:"config,type:jsonb" json:"config"`
	Position   int            `bun:"position,notnull,default:0" json:"position"`
	CreatedAt  time.Time      `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt  time.Time      `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// Models lists the tables the bun store needs, for migrations and tests.
func Models() []any {
	return []any{(*PageModel)(nil), (*BlockModel)(nil)}
}
