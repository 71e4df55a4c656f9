package audit

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/quizdeck/quizdeck/internal/model"
	"github.com/quizdeck/quizdeck/internal/store"
)

func newTestRecorder(t *testing.T, buffer int) (*Recorder, *store.Store) {
	t.Helper()
	st, err := store.Open(store.DriverSQLite, "")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRecorder(st, logger, buffer), st
}

func TestRecorderWritesEntries(t *testing.T) {
	r, st := newTestRecorder(t, 8)
	ctx := context.Background()

	r.Record(model.AuditEntry{
		Action:     model.AuditFailedLogin,
		TargetType: "admin",
		NewData:    JSON(map[string]string{"username": "mallory"}),
		IPAddress:  "10.0.0.9",
	})
	r.Record(model.AuditEntry{
		Action:     model.AuditCreate,
		TargetType: "category",
		IPAddress:  "10.0.0.1",
	})

	// Close drains the queue before returning.
	r.Close()

	entries, total, err := st.ListAuditEntries(ctx, model.AuditFilter{}, 1, 10)
	if err != nil {
		t.Fatalf("ListAuditEntries: %v", err)
	}
	if total != 2 {
		t.Fatalf("got %d entries, want 2", total)
	}
	var found bool
	for _, e := range entries {
		if e.Action == model.AuditFailedLogin {
			found = true
			if e.NewData == nil || *e.NewData != `{"username":"mallory"}` {
				t.Errorf("got new_data %v, want attempted username", e.NewData)
			}
		}
	}
	if !found {
		t.Error("failed login entry missing")
	}
}

func TestRecorderDropsWhenFull(t *testing.T) {
	r, _ := newTestRecorder(t, 1)

	// Flood far past the buffer; Record must never block.
	for i := 0; i < 500; i++ {
		r.Record(model.AuditEntry{Action: model.AuditUpdate, TargetType: "question"})
	}
	r.Close()

	if r.Dropped() == 0 {
		t.Error("expected drops with a full buffer")
	}
}

func TestRecordAfterCloseIsNoop(t *testing.T) {
	r, st := newTestRecorder(t, 8)
	r.Close()

	r.Record(model.AuditEntry{Action: model.AuditDelete, TargetType: "pack"})
	r.Close() // double close is safe

	_, total, err := st.ListAuditEntries(context.Background(), model.AuditFilter{}, 1, 10)
	if err != nil {
		t.Fatalf("ListAuditEntries: %v", err)
	}
	if total != 0 {
		t.Errorf("got %d entries, want 0", total)
	}
}

func TestJSONHelper(t *testing.T) {
	if JSON(nil) != nil {
		t.Error("JSON(nil) should be nil")
	}
	got := JSON(map[string]int{"a": 1})
	if got == nil || *got != `{"a":1}` {
		t.Errorf("got %v, want {\"a\":1}", got)
	}
}
