package models

import (
	"encoding/json"
	"errors"
)

// SchemaBlock is one parsed <script type="application/ld+json"> payload.
// Only @type and @context are read into typed fields; everything else stays in Raw.
type SchemaBlock struct {
	Types   []string        `json:"-"`
	Context string          `json:"-"`
	Raw     json.RawMessage `json:"-"`
}

// ParseSchemaBlock decodes a JSON-LD payload. Any valid JSON document is accepted;
// arrays and scalars become blocks with no types.
func ParseSchemaBlock(data []byte) (SchemaBlock, error) {
	if !json.Valid(data) {
		return SchemaBlock{}, errors.New("invalid JSON-LD")
	}

	block := SchemaBlock{Raw: append(json.RawMessage(nil), data...)}

	var head struct {
		Type    json.RawMessage `json:"@type"`
		Context json.RawMessage `json:"@context"`
	}
	// Non-object documents fail here and simply carry no typed fields.
	if err := json.Unmarshal(data, &head); err != nil {
		return block, nil
	}

	block.Types = decodeTypes(head.Type)

	var ctx string
	if json.Unmarshal(head.Context, &ctx) == nil {
		block.Context = ctx
	}

	return block, nil
}

func decodeTypes(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}

	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		if single == "" {
			return nil
		}
		return []string{single}
	}

	var many []any
	if err := json.Unmarshal(raw, &many); err != nil {
		return nil
	}
	types := make([]string, 0, len(many))
	for _, t := range many {
		if s, ok := t.(string); ok {
			types = append(types, s)
		}
	}
	return types
}

// PrimaryType returns the first @type of the block, or "" when it has none.
func (b SchemaBlock) PrimaryType() string {
	if len(b.Types) == 0 {
		return ""
	}
	return b.Types[0]
}

func (b SchemaBlock) MarshalJSON() ([]byte, error) {
	if len(b.Raw) == 0 {
		return []byte("null"), nil
	}
	return b.Raw, nil
}

func (b *SchemaBlock) UnmarshalJSON(data []byte) error {
	parsed, err := ParseSchemaBlock(data)
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}
