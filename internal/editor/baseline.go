package editor

import (
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-composer/internal/blocks"
)

type baselineBlock struct {
	TemplateID string         `json:"template_id"`
	Config     map[string]any `json:"config"`
	Order      int            `json:"order"`
}

type baselineState struct {
	Blocks   []baselineBlock `json:"blocks"`
	PageData map[string]any  `json:"page_data"`
}

// serializeState renders the persisted parts of a draft canonically. Block
// ids and templates are left out: they change across a save without changing
// what is stored. Map keys are sorted by encoding/json.
func serializeState(list []blocks.PlacedBlock, pageData PageData) string {
	if pageData == nil {
		pageData = PageData{}
	}
	state := baselineState{Blocks: make([]baselineBlock, 0, len(list)), PageData: pageData}
	for _, block := range list {
		state.Blocks = append(state.Blocks, baselineBlock{
			TemplateID: block.TemplateID,
			Config:     block.Config,
			Order:      block.Order,
		})
	}
	raw, err := json.Marshal(state)
	if err != nil {
		// values JSON cannot encode still compare deterministically
		return fmt.Sprintf("%#v", state)
	}
	return string(raw)
}
