package reconcile

import (
	"sort"

	"github.com/goliatone/go-composer/internal/blocks"
	"github.com/goliatone/go-composer/internal/schema"
	"github.com/goliatone/go-composer/pkg/interfaces"
)

// Input is everything needed to merge a store response back into a draft.
type Input struct {
	// Sent is the block list exactly as it was sent to the store.
	Sent []blocks.PlacedBlock
	// Returned is the authoritative list the store answered with.
	Returned []interfaces.StoredBlock
	Catalog  TemplateLookup
	Selected blocks.BlockID
}

// Result is the reconciled draft.
type Result struct {
	Blocks     []blocks.PlacedBlock
	Mapping    Mapping
	Unresolved []blocks.BlockID
	Selected   blocks.BlockID
	Sources    map[blocks.BlockID]TemplateSource
}

// Reconcile builds the post-save block list from the store response. The
// returned list is authoritative: its blocks carry permanent ids, are sorted
// by order and renumbered, and get their template backfilled. Unmapped sent
// ids are reported, never treated as failures.
func Reconcile(in Input) Result {
	mapping, unresolved, pairedWith := MapIdentifiers(in.Sent, in.Returned)

	order := make([]int, len(in.Returned))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return in.Returned[order[a]].Order < in.Returned[order[b]].Order
	})

	result := Result{
		Blocks:     make([]blocks.PlacedBlock, 0, len(in.Returned)),
		Mapping:    mapping,
		Unresolved: unresolved,
		Sources:    make(map[blocks.BlockID]TemplateSource, len(in.Returned)),
	}
	for _, idx := range order {
		stored := in.Returned[idx]
		var previous *blocks.Template
		if sentIdx := pairedWith[idx]; sentIdx >= 0 {
			previous = in.Sent[sentIdx].Template
		}
		tmpl, source := ResolveTemplate(stored.Template, previous, in.Catalog, stored.TemplateID)
		id := blocks.PermanentID(stored.ID)
		result.Sources[id] = source
		result.Blocks = append(result.Blocks, blocks.PlacedBlock{
			ID:         id,
			TemplateID: stored.TemplateID,
			Config:     blocks.NormalizedConfig(schema.CloneConfig(stored.Config), tmpl),
			Template:   tmpl,
		})
	}
	blocks.Renumber(result.Blocks)
	result.Selected = CarrySelection(in.Selected, mapping, result.Blocks)
	return result
}

// CarrySelection moves a selection across a save. A mapped selection follows
// its block to the new id; a selection that no longer exists in any form is
// cleared.
func CarrySelection(selected blocks.BlockID, mapping Mapping, list []blocks.PlacedBlock) blocks.BlockID {
	if selected.IsZero() {
		return selected
	}
	if mapped, ok := mapping.Resolve(selected); ok && blocks.IndexOf(list, mapped) >= 0 {
		return mapped
	}
	if blocks.IndexOf(list, selected) >= 0 {
		return selected
	}
	return blocks.BlockID{}
}
