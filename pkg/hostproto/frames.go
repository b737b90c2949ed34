// Package hostproto defines the JSON frames exchanged with the in-page bridge.
package hostproto

import (
	"encoding/json"
	"fmt"
)

type Kind string

// Inbound kinds.
const (
	KindSnapshot  Kind = "snapshot"
	KindMutations Kind = "mutations"
	KindActive    Kind = "active"
	KindClick     Kind = "click"
)

// Outbound kinds.
const (
	KindRender    Kind = "render"
	KindIndicator Kind = "indicator"
	KindActivate  Kind = "activate"
)

// Mutation record types, as reported by the page's MutationObserver.
const (
	MutationChildList     = "childList"
	MutationCharacterData = "characterData"
	MutationAttributes    = "attributes"
)

const (
	TargetMoves   = "moves"
	TargetSummary = "summary"
)

const (
	GestureMouseDown = "mousedown"
	GestureClick     = "click"
)

// Envelope is the wire shape of every frame: a kind tag plus its payload.
type Envelope struct {
	Type Kind            `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

type Snapshot struct {
	HTML string `json:"html"`
}

type MutationRecord struct {
	Type       string   `json:"type"`
	RemovedIDs []string `json:"removed_ids,omitempty"`
	// ParentTag is the lowercase tag of the closest element ancestor of the
	// mutated node.
	ParentTag string `json:"parent_tag,omitempty"`
}

// Mutations carries one observer batch; HTML is the page after the batch
// when the bridge chose to include it.
type Mutations struct {
	HTML    string           `json:"html,omitempty"`
	Records []MutationRecord `json:"records"`
}

type Active struct {
	HTML string `json:"html,omitempty"`
}

type Click struct {
	Color    string `json:"color"`
	Category string `json:"category"`
}

type Render struct {
	Target string `json:"target"`
	HTML   string `json:"html"`
}

type Indicator struct {
	HTML   string `json:"html,omitempty"`
	Square string `json:"square,omitempty"`
	Clear  bool   `json:"clear"`
}

type Activate struct {
	Ply     int    `json:"ply"`
	Gesture string `json:"gesture"`
}

// Encode wraps payload in an envelope of the given kind.
func Encode(kind Kind, payload any) (Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("encode %s frame: %w", kind, err)
	}
	return Envelope{Type: kind, Data: raw}, nil
}

// Decode unmarshals the envelope payload into out.
func (e Envelope) Decode(out any) error {
	if len(e.Data) == 0 {
		return fmt.Errorf("decode %s frame: empty payload", e.Type)
	}
	if err := json.Unmarshal(e.Data, out); err != nil {
		return fmt.Errorf("decode %s frame: %w", e.Type, err)
	}
	return nil
}
