package draftcache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goliatone/go-composer/pkg/interfaces"
	"github.com/uptrace/bun"
)

// DraftModel is a persisted draft row.
type DraftModel struct {
	bun.BaseModel `bun:"table:composer_drafts,alias:cd"`

	PageID    string                  `bun:"page_id,pk" json:"page_id"`
	Blocks    []interfaces.DraftBlock `bun:"blocks,type:jsonb" json:"blocks"`
	PageData  map[string]any          `bun:"page_data,type:jsonb" json:"page_data"`
	DraftedAt time.Time               `bun:"drafted_at,notnull" json:"drafted_at"`
}

// BunCache keeps drafts in a SQL table, for deployments without Redis.
type BunCache struct {
	db *bun.DB
}

// NewBunCache creates a draft cache backed by db.
func NewBunCache(db *bun.DB) *BunCache {
	return &BunCache{db: db}
}

// CreateTable creates the drafts table when missing.
func (c *BunCache) CreateTable(ctx context.Context) error {
	_, err := c.db.NewCreateTable().Model((*DraftModel)(nil)).IfNotExists().Exec(ctx)
	return err
}

func (c *BunCache) Get(ctx context.Context, pageID string) (*interfaces.DraftSnapshot, bool, error) {
	row := new(DraftModel)
	err := c.db.NewSelect().Model(row).Where("?TableAlias.page_id = ?", pageID).Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("draftcache: load draft: %w", err)
	}
	return &interfaces.DraftSnapshot{
		Blocks:    row.Blocks,
		PageData:  row.PageData,
		Timestamp: row.DraftedAt,
	}, true, nil
}

func (c *BunCache) Set(ctx context.Context, pageID string, snapshot interfaces.DraftSnapshot) error {
	row := &DraftModel{
		PageID:    pageID,
		Blocks:    snapshot.Blocks,
		PageData:  snapshot.PageData,
		DraftedAt: snapshot.Timestamp.UTC(),
	}
	if row.Blocks == nil {
		row.Blocks = []interfaces.DraftBlock{}
	}
	return c.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().Model((*DraftModel)(nil)).Where("?TableAlias.page_id = ?", pageID).Exists(ctx)
		if err != nil {
			return fmt.Errorf("draftcache: check draft: %w", err)
		}
		if !exists {
			if _, err := tx.NewInsert().Model(row).Exec(ctx); err != nil {
				return fmt.Errorf("draftcache: insert draft: %w", err)
			}
			return nil
		}
		if _, err := tx.NewUpdate().Model(row).Column("blocks", "page_data", "drafted_at").WherePK().Exec(ctx); err != nil {
			return fmt.Errorf("draftcache: update draft: %w", err)
		}
		return nil
	})
}

func (c *BunCache) Remove(ctx context.Context, pageID string) error {
	if _, err := c.db.NewDelete().Model((*DraftModel)(nil)).Where("?TableAlias.page_id = ?", pageID).Exec(ctx); err != nil {
		return fmt.Errorf("draftcache: delete draft: %w", err)
	}
	return nil
}

var _ interfaces.DraftCache = (*BunCache)(nil)
