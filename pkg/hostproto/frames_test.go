package hostproto

import (
	"encoding/json"
	"testing"
)

func TestDecodeInboundMutations(t *testing.T) {
	raw := `{"type":"mutations","data":{"records":[{"type":"childList","removed_ids":["acpl-chart-container-loader"]},{"type":"characterData","parent_tag":"eval"}]}}`
	var env Envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if env.Type != KindMutations {
		t.Fatalf("type = %q", env.Type)
	}
	var m Mutations
	if err := env.Decode(&m); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(m.Records) != 2 || m.Records[0].RemovedIDs[0] != "acpl-chart-container-loader" || m.Records[1].ParentTag != "eval" {
		t.Fatalf("records = %+v", m.Records)
	}
	if m.HTML != "" {
		t.Fatalf("html = %q", m.HTML)
	}
}

func TestEncodeOutbound(t *testing.T) {
	env, err := Encode(KindActivate, Activate{Ply: 7, Gesture: GestureMouseDown})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	b, _ := json.Marshal(env)
	if string(b) != `{"type":"activate","data":{"ply":7,"gesture":"mousedown"}}` {
		t.Fatalf("json = %s", b)
	}

	env, _ = Encode(KindIndicator, Indicator{Clear: true})
	b, _ = json.Marshal(env)
	if string(b) != `{"type":"indicator","data":{"clear":true}}` {
		t.Fatalf("json = %s", b)
	}
}

func TestDecodeEmptyPayload(t *testing.T) {
	var c Click
	if err := (Envelope{Type: KindClick}).Decode(&c); err == nil {
		t.Fatalf("expected error")
	}
}
