package remote

import (
	"encoding/json"
	"testing"
)

func ids(records []Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestNormalizeRecords(t *testing.T) {
	records := NormalizeRecords(map[string]string{
		"c": `{"id":"c"}`,
		"a": `{"id":"a"}`,
		"b": `{"id":"b"}`,
	})
	got := ids(records)
	want := []string{"a", "b", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
	if string(records[0].Data) != `{"id":"a"}` {
		t.Fatalf("payload not preserved: %s", records[0].Data)
	}

	if out := NormalizeRecords(nil); len(out) != 0 {
		t.Fatalf("nil map should normalize to empty, got %v", out)
	}
}

func TestNormalizePayload(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want []string
	}{
		{"map shape", `{"b":{"id":"b","name":"x"},"a":{"id":"a"}}`, []string{"a", "b"}},
		{"array shape", `[{"id":"b"},{"id":"a"}]`, []string{"a", "b"}},
		{"array drops id-less entries", `[{"id":"a"},{"name":"no id"},42]`, []string{"a"}},
		{"empty payload", ``, nil},
		{"null", `null`, nil},
		{"garbage", `"just a string"`, nil},
		{"empty map", `{}`, nil},
		{"empty array", `[]`, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			records := NormalizePayload(json.RawMessage(tc.raw))
			if len(records) != len(tc.want) {
				t.Fatalf("expected %d records, got %d (%v)", len(tc.want), len(records), ids(records))
			}
			for i, id := range tc.want {
				if records[i].ID != id {
					t.Fatalf("expected order %v, got %v", tc.want, ids(records))
				}
			}
		})
	}
}

func TestNormalizePayload_Stable(t *testing.T) {
	raw := json.RawMessage(`{"z":{"id":"z"},"m":{"id":"m"},"a":{"id":"a"}}`)
	first := ids(NormalizePayload(raw))
	for i := 0; i < 10; i++ {
		again := ids(NormalizePayload(raw))
		for j := range first {
			if again[j] != first[j] {
				t.Fatalf("order not stable across calls: %v vs %v", first, again)
			}
		}
	}
}
