package draftcache

import (
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-composer/pkg/interfaces"
)

func encodeSnapshot(snapshot interfaces.DraftSnapshot) ([]byte, error) {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("draftcache: encode snapshot: %w", err)
	}
	return raw, nil
}

func decodeSnapshot(raw []byte) (*interfaces.DraftSnapshot, error) {
	var snapshot interfaces.DraftSnapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return nil, fmt.Errorf("draftcache: decode snapshot: %w", err)
	}
	return &snapshot, nil
}
