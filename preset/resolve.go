package preset

import (
	"strconv"
	"strings"

	"github.com/phoenix-chimera/audiocore/catalogue"
	"github.com/phoenix-chimera/audiocore/chain"
	"github.com/phoenix-chimera/audiocore/fx"
)

// Apply resolves a decoded Preset into chain.SlotSpec values and installs
// them via c.InstallPreset (spec §4.6: "Receives preset payloads ... and
// invokes installPreset on the chain"). It is the control-surface logic
// that sits between the wire format and the chain's own contract.
func Apply(c *chain.Chain, p *Preset) []error {
	var specs [chain.SlotCount]SlotSpecBuilder
	for i := range specs {
		specs[i].currentID = c.Slot(i).EngineID()
	}
	for _, e := range p.Engines {
		idx := e.Slot - 1
		specs[idx].touched = true
		specs[idx].id = e.ID
		specs[idx].bypass = e.Bypass
		if e.Mix != nil {
			specs[idx].hasMix = true
			specs[idx].mix = *e.Mix
		}
	}

	resolveParameters(specs[:], p.Parameters)

	var chainSpecs [chain.SlotCount]chain.SlotSpec
	for i, s := range specs {
		chainSpecs[i] = s.build()
	}
	return c.InstallPreset(chainSpecs)
}

// SlotSpecBuilder accumulates one slot's resolved state before it is
// handed to the chain package as a chain.SlotSpec. It is kept separate
// from chain.SlotSpec because parameter resolution needs the slot's
// target engine id (to look up parameter names) before a params map can
// be built, and currentID is only relevant during resolution, never to
// the chain itself.
type SlotSpecBuilder struct {
	currentID int
	touched   bool
	id        int
	bypass    bool
	hasMix    bool
	mix       float64
	params    fx.ParameterUpdate
}

// targetID is the engine id parameter keys for this slot should resolve
// parameter names against: the newly declared id if this slot is touched,
// otherwise whatever engine is already installed.
func (b *SlotSpecBuilder) targetID() int {
	if b.touched {
		return b.id
	}
	return b.currentID
}

func (b *SlotSpecBuilder) build() chain.SlotSpec {
	return chain.SlotSpec{
		Touched:  b.touched,
		EngineID: b.id,
		Bypass:   b.bypass,
		Mix:      b.mix,
		HasMix:   b.hasMix,
		Params:   b.params,
	}
}

// resolveParameters walks the flat "parameters" map (spec §6.2) and
// assigns each key to the slot/index it names. Index-keyed
// (slot{N}_param{M}) and name-keyed (slot{N}_<semanticName>, matched
// case-insensitively against the target engine's declared parameter
// names) forms are both accepted; unknown or unparsable keys are ignored
// silently, matching the "unknown keys are ignored" clause.
func resolveParameters(specs []SlotSpecBuilder, params map[string]float64) {
	// A throwaway engine per distinct target id is constructed only to
	// query ParameterName(i); it is never prepared or processed; engine
	// construction is explicitly a non-realtime, control-thread-only
	// operation (spec §4.4), and preset resolution always runs there.
	nameIndex := make(map[int]map[string]int)

	for key, value := range params {
		slotNum, rest, ok := parseSlotKey(key)
		if !ok || slotNum < 1 || slotNum > len(specs) {
			continue
		}
		idx := slotNum - 1
		paramIdx, ok := resolveParamIndex(specs[idx].targetID(), rest, nameIndex)
		if !ok {
			continue
		}
		if specs[idx].params == nil {
			specs[idx].params = fx.ParameterUpdate{}
		}
		specs[idx].params[paramIdx] = value
	}
}

// resolveParamIndex turns the part of a key after "slot{N}_" into a
// parameter index for the given engine id, trying the index-keyed form
// first (param{M}) and falling back to a case-insensitive name match.
func resolveParamIndex(engineID int, rest string, cache map[int]map[string]int) (int, bool) {
	if strings.HasPrefix(rest, "param") {
		if n, err := strconv.Atoi(rest[len("param"):]); err == nil {
			return n, true
		}
	}

	names, ok := cache[engineID]
	if !ok {
		names = buildNameIndex(engineID)
		cache[engineID] = names
	}
	idx, ok := names[strings.ToLower(rest)]
	return idx, ok
}

func buildNameIndex(engineID int) map[string]int {
	e := catalogue.New(engineID)
	names := make(map[string]int, e.ParameterCount())
	for i := 0; i < e.ParameterCount(); i++ {
		names[strings.ToLower(e.ParameterName(i))] = i
	}
	return names
}

// parseSlotKey splits "slot{N}_{rest}" into N and rest. Returns ok=false
// for anything that doesn't match that shape.
func parseSlotKey(key string) (slotNum int, rest string, ok bool) {
	if !strings.HasPrefix(key, "slot") {
		return 0, "", false
	}
	remainder := key[len("slot"):]
	digits := 0
	for digits < len(remainder) && remainder[digits] >= '0' && remainder[digits] <= '9' {
		digits++
	}
	if digits == 0 || digits >= len(remainder) || remainder[digits] != '_' {
		return 0, "", false
	}
	n, err := strconv.Atoi(remainder[:digits])
	if err != nil {
		return 0, "", false
	}
	return n, remainder[digits+1:], true
}
