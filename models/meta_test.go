package models

import (
	"fmt"
	"testing"
	"time"
)

func TestAppendActivity(t *testing.T) {
	now := time.Now()

	t.Run("prepends newest first", func(t *testing.T) {
		log := AppendActivity(nil, "first", now)
		log = AppendActivity(log, "second", now.Add(time.Minute))
		if len(log) != 2 || log[0].Text != "second" || log[1].Text != "first" {
			t.Fatalf("unexpected order: %+v", log)
		}
	})

	t.Run("trims to the bound", func(t *testing.T) {
		var log []Activity
		for i := 0; i < 30; i++ {
			log = AppendActivity(log, fmt.Sprintf("entry %d", i), now.Add(time.Duration(i)*time.Second))
		}
		if len(log) != 20 {
			t.Fatalf("expected 20 entries, got %d", len(log))
		}
		if log[0].Text != "entry 29" || log[19].Text != "entry 10" {
			t.Fatalf("wrong window kept: newest=%q oldest=%q", log[0].Text, log[19].Text)
		}
	})

	t.Run("does not mutate the input slice header", func(t *testing.T) {
		orig := []Activity{{Text: "keep", Date: now}}
		_ = AppendActivity(orig, "new", now)
		if len(orig) != 1 || orig[0].Text != "keep" {
			t.Fatalf("input slice mutated: %+v", orig)
		}
	})
}
