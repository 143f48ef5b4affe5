package reconcile

import (
	"github.com/goliatone/go-composer/internal/blocks"
	"github.com/goliatone/go-composer/pkg/interfaces"
)

// Mapping links the identifier a block carried when it was sent to the store
// with the permanent identifier the store returned for it.
type Mapping map[blocks.BlockID]blocks.BlockID

// Resolve returns the mapped identifier for id.
func (m Mapping) Resolve(id blocks.BlockID) (blocks.BlockID, bool) {
	mapped, ok := m[id]
	return mapped, ok
}

// Apply rewrites the ids of list in place and reports how many changed.
func (m Mapping) Apply(list []blocks.PlacedBlock) int {
	changed := 0
	for i := range list {
		if mapped, ok := m[list[i].ID]; ok && mapped != list[i].ID {
			list[i].ID = mapped
			changed++
		}
	}
	return changed
}

// MapIdentifiers pairs sent blocks with returned blocks. The n-th block sent
// maps to the n-th block returned when both carry the same template. Blocks
// left over are matched by (template, order) among unclaimed returned blocks.
// It returns the mapping, the sent ids that matched nothing, and for each
// returned index the sent index it was paired with (-1 when unpaired).
func MapIdentifiers(sent []blocks.PlacedBlock, returned []interfaces.StoredBlock) (Mapping, []blocks.BlockID, []int) {
	mapping := make(Mapping, len(sent))
	pairedWith := make([]int, len(returned))
	for i := range pairedWith {
		pairedWith[i] = -1
	}
	resolved := make([]bool, len(sent))

	for i := range sent {
		if i >= len(returned) {
			break
		}
		if returned[i].ID == "" || returned[i].TemplateID != sent[i].TemplateID {
			continue
		}
		mapping[sent[i].ID] = blocks.PermanentID(returned[i].ID)
		pairedWith[i] = i
		resolved[i] = true
	}

	var unresolved []blocks.BlockID
	for i := range sent {
		if resolved[i] {
			continue
		}
		match := -1
		for j := range returned {
			if pairedWith[j] != -1 || returned[j].ID == "" {
				continue
			}
			if returned[j].TemplateID == sent[i].TemplateID && returned[j].Order == sent[i].Order {
				match = j
				break
			}
		}
		if match == -1 {
			unresolved = append(unresolved, sent[i].ID)
			continue
		}
		mapping[sent[i].ID] = blocks.PermanentID(returned[match].ID)
		pairedWith[match] = i
	}
	return mapping, unresolved, pairedWith
}
