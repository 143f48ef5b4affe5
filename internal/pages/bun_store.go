package pages

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-composer/pkg/interfaces"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunStore is a SQL page store. Block lists are replaced in one transaction.
type BunStore struct {
	db   *bun.DB
	opts options
	now  func() time.Time
}

// NewBunStore constructs a page store backed by db.
func NewBunStore(db *bun.DB, opts ...Option) *BunStore {
	return &BunStore{db: db, opts: buildOptions(opts), now: time.Now}
}

// CreateTables creates the store tables when missing.
func (s *BunStore) CreateTables(ctx context.Context) error {
	for _, model := range Models() {
		if _, err := s.db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("create table %T: %w", model, err)
		}
	}
	return nil
}

func (s *BunStore) LoadPage(ctx context.Context, pageID string) (*interfaces.PageSnapshot, error) {
	pageID = strings.TrimSpace(pageID)
	page := new(PageModel)
	if err := s.db.NewSelect().Model(page).Where("?TableAlias.id = ?", pageID).Limit(1).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Key: pageID}
		}
		return nil, fmt.Errorf("load page: %w", err)
	}

	var rows []*BlockModel
	if err := s.db.NewSelect().
		Model(&rows).
		Where("?TableAlias.page_id = ?", pageID).
		OrderExpr("?TableAlias.position ASC").
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("load page blocks: %w", err)
	}

	snapshot := &interfaces.PageSnapshot{PageID: pageID, Fields: page.Fields, Blocks: storedFromRows(rows)}
	if snapshot.Fields == nil {
		snapshot.Fields = map[string]any{}
	}
	if err := attachTemplates(ctx, s.opts.catalog, snapshot.Blocks); err != nil {
		return nil, err
	}
	return snapshot, nil
}

// UpdatePageFields replaces the page fields, inserting the page row when it
// does not exist yet.
func (s *BunStore) UpdatePageFields(ctx context.Context, pageID string, fields map[string]any) error {
	pageID = strings.TrimSpace(pageID)
	if pageID == "" {
		return ErrPageIDRequired
	}
	if fields == nil {
		fields = map[string]any{}
	}
	now := s.now().UTC()

	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().Model((*PageModel)(nil)).Where("?TableAlias.id = ?", pageID).Exists(ctx)
		if err != nil {
			return fmt.Errorf("check page: %w", err)
		}
		if !exists {
			record := &PageModel{ID: pageID, Fields: fields, CreatedAt: now, UpdatedAt: now}
			if _, err := tx.NewInsert().Model(record).Exec(ctx); err != nil {
				return fmt.Errorf("insert page: %w", err)
			}
			return nil
		}
		record := &PageModel{ID: pageID, Fields: fields, UpdatedAt: now}
		if _, err := tx.NewUpdate().
			Model(record).
			Column("fields", "updated_at").
			WherePK().
			Exec(ctx); err != nil {
			return fmt.Errorf("update page: %w", err)
		}
		return nil
	})
}

// ReplaceBlocks deletes every block of the page and inserts payload. Ids that
// belonged to the page survive; anything else gets a new uuid.
func (s *BunStore) ReplaceBlocks(ctx context.Context, pageID string, payload []interfaces.BlockPayload) ([]interfaces.StoredBlock, error) {
	pageID = strings.TrimSpace(pageID)
	if pageID == "" {
		return nil, ErrPageIDRequired
	}
	now := s.now().UTC()
	var inserted []*BlockModel

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var existingIDs []uuid.UUID
		if err := tx.NewSelect().
			Model((*BlockModel)(nil)).
			Column("id").
			Where("?TableAlias.page_id = ?", pageID).
			Scan(ctx, &existingIDs); err != nil {
			return fmt.Errorf("list page blocks: %w", err)
		}
		existing := make(map[uuid.UUID]bool, len(existingIDs))
		for _, id := range existingIDs {
			existing[id] = true
		}

		if _, err := tx.NewDelete().
			Model((*BlockModel)(nil)).
			Where("?TableAlias.page_id = ?", pageID).
			Exec(ctx); err != nil {
			return fmt.Errorf("delete page blocks: %w", err)
		}

		for _, entry := range sortedPayload(payload) {
			id, err := uuid.Parse(entry.ID)
			if err != nil || !existing[id] {
				id, err = uuid.Parse(s.opts.newID())
				if err != nil {
					id = uuid.New()
				}
			}
			config := entry.Config
			if config == nil {
				config = map[string]any{}
			}
			inserted = append(inserted, &BlockModel{
				ID:         id,
				PageID:     pageID,
				TemplateID: entry.TemplateID,
				Config:     config,
				Position:   entry.Order,
				CreatedAt:  now,
				UpdatedAt:  now,
			})
		}
		if len(inserted) == 0 {
			return nil
		}
		if _, err := tx.NewInsert().Model(&inserted).Exec(ctx); err != nil {
			return fmt.Errorf("insert page blocks: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	stored := storedFromRows(inserted)
	if err := attachTemplates(ctx, s.opts.catalog, stored); err != nil {
		return nil, err
	}
	return stored, nil
}

var _ interfaces.PageStore = (*BunStore)(nil)

func storedFromRows(rows []*BlockModel) []interfaces.StoredBlock {
	out := make([]interfaces.StoredBlock, 0, len(rows))
	for _, row := range rows {
		out = append(out, interfaces.StoredBlock{
			ID:         row.ID.String(),
			TemplateID: row.TemplateID,
			Config:     row.Config,
			Order:      row.Position,
		})
	}
	return out
}
