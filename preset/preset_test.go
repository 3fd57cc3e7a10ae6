package preset

import (
	"encoding/json"
	"testing"

	"github.com/phoenix-chimera/audiocore/chain"
)

func newTestChain(t *testing.T) *chain.Chain {
	t.Helper()
	c := chain.New(chain.NoopFaultHandler{})
	c.Prepare(48000, 256)
	t.Cleanup(c.Close)
	return c
}

func TestParseRejectsEmptyEngines(t *testing.T) {
	_, err := Parse([]byte(`{"preset_name":"x","engines":[],"parameters":{}}`))
	if err == nil {
		t.Fatal("expected error for empty engines array")
	}
}

func TestParseRejectsOutOfRangeSlot(t *testing.T) {
	_, err := Parse([]byte(`{"preset_name":"x","engines":[{"slot":7,"id":0,"bypass":false}],"parameters":{}}`))
	if err == nil {
		t.Fatal("expected error for slot 7")
	}
}

func TestParseRejectsOutOfRangeEngineID(t *testing.T) {
	_, err := Parse([]byte(`{"preset_name":"x","engines":[{"slot":1,"id":999,"bypass":false}],"parameters":{}}`))
	if err == nil {
		t.Fatal("expected error for engine id 999")
	}
}

func TestParseRejectsDuplicateSlot(t *testing.T) {
	_, err := Parse([]byte(`{"preset_name":"x","engines":[
		{"slot":1,"id":2,"bypass":false},
		{"slot":1,"id":3,"bypass":false}
	],"parameters":{}}`))
	if err == nil {
		t.Fatal("expected error for duplicate slot 1")
	}
}

func TestParseAssignsInstallID(t *testing.T) {
	p, err := Parse([]byte(`{"preset_name":"x","engines":[{"slot":1,"id":0,"bypass":false}],"parameters":{}}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.InstallID.String() == "" {
		t.Fatal("expected a non-empty InstallID")
	}
}

func TestApplyInstallsEngineAndIndexKeyedParameter(t *testing.T) {
	c := newTestChain(t)
	payload := `{
		"preset_name": "test",
		"engines": [{"slot": 1, "id": 2, "bypass": false}],
		"parameters": {"slot1_param0": 0.8}
	}`
	p, err := Parse([]byte(payload))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if errs := Apply(c, p); len(errs) != 0 {
		t.Fatalf("Apply errors: %v", errs)
	}
	if c.Slot(0).EngineID() != 2 {
		t.Fatalf("slot 0: got id %d, want 2", c.Slot(0).EngineID())
	}
	specs := make([]SlotSpecBuilder, chain.SlotCount)
	specs[0].touched, specs[0].id = true, 2
	resolveParameters(specs, p.Parameters)
	if got, ok := specs[0].params[0]; !ok || got != 0.8 {
		t.Fatalf("slot 1 param 0: got %v (present %v), want 0.8", got, ok)
	}
}

func TestApplyResolvesSemanticParameterNameCaseInsensitively(t *testing.T) {
	c := newTestChain(t)
	payload := `{
		"preset_name": "test",
		"engines": [{"slot": 2, "id": 2, "bypass": false}],
		"parameters": {"slot2_THRESHOLD": 0.1}
	}`
	p, err := Parse([]byte(payload))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if errs := Apply(c, p); len(errs) != 0 {
		t.Fatalf("Apply errors: %v", errs)
	}
	if c.Slot(1).EngineID() != 2 {
		t.Fatalf("slot 1: got id %d, want 2", c.Slot(1).EngineID())
	}
	specs := make([]SlotSpecBuilder, chain.SlotCount)
	specs[1].touched, specs[1].id = true, 2
	resolveParameters(specs, p.Parameters)
	if got, ok := specs[1].params[0]; !ok || got != 0.1 {
		t.Fatalf("slot 2 Threshold (param 0): got %v (present %v), want 0.1", got, ok)
	}
}

func TestApplyLeavesUnlistedSlotsUntouched(t *testing.T) {
	c := newTestChain(t)
	if err := c.InstallEngine(3, 7); err != nil {
		t.Fatalf("InstallEngine: %v", err)
	}
	payload := `{
		"preset_name": "test",
		"engines": [{"slot": 1, "id": 9, "bypass": false}],
		"parameters": {}
	}`
	p, err := Parse([]byte(payload))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if errs := Apply(c, p); len(errs) != 0 {
		t.Fatalf("Apply errors: %v", errs)
	}
	if c.Slot(3).EngineID() != 7 {
		t.Fatalf("slot 3 should be untouched, got id %d, want 7", c.Slot(3).EngineID())
	}
}

func TestApplyCanTuneParameterOnSlotNotListedInEngines(t *testing.T) {
	c := newTestChain(t)
	if err := c.InstallEngine(4, 2); err != nil {
		t.Fatalf("InstallEngine: %v", err)
	}
	payload := `{
		"preset_name": "test",
		"engines": [{"slot": 1, "id": 0, "bypass": false}],
		"parameters": {"slot5_param0": 0.9}
	}`
	p, err := Parse([]byte(payload))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if errs := Apply(c, p); len(errs) != 0 {
		t.Fatalf("Apply errors: %v", errs)
	}
	if c.Slot(4).EngineID() != 2 {
		t.Fatalf("slot 4 engine should remain id 2, got %d", c.Slot(4).EngineID())
	}
	specs := make([]SlotSpecBuilder, chain.SlotCount)
	specs[4].currentID = 2
	resolveParameters(specs, p.Parameters)
	if got, ok := specs[4].params[0]; !ok || got != 0.9 {
		t.Fatalf("slot 5 param 0: got %v (present %v), want 0.9", got, ok)
	}
}

func TestFromChainRoundTrip(t *testing.T) {
	c := newTestChain(t)
	if err := c.InstallEngine(0, 9); err != nil {
		t.Fatalf("InstallEngine: %v", err)
	}
	c.Slot(0).SetBypass(false)
	c.Slot(0).SetMix(0.7)
	c.Slot(0).ResetMix()

	p := FromChain(c, "captured")
	data, err := p.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var roundTripped Preset
	if err := json.Unmarshal(data, &roundTripped); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(roundTripped.Engines) != chain.SlotCount {
		t.Fatalf("got %d engine entries, want %d", len(roundTripped.Engines), chain.SlotCount)
	}
	if roundTripped.Engines[0].ID != 9 {
		t.Fatalf("slot 1: got id %d, want 9", roundTripped.Engines[0].ID)
	}
}

func TestUnknownParameterKeyIsIgnored(t *testing.T) {
	c := newTestChain(t)
	payload := `{
		"preset_name": "test",
		"engines": [{"slot": 1, "id": 2, "bypass": false}],
		"parameters": {"not_a_slot_key": 1.0, "slot1_nonexistentParam": 0.5}
	}`
	p, err := Parse([]byte(payload))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if errs := Apply(c, p); len(errs) != 0 {
		t.Fatalf("Apply errors: %v", errs)
	}
}
