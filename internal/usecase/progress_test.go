package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
)

func counterFormat(done, total int) string {
	return fmt.Sprintf("%d/%d", done, total)
}

func TestProgress_InPlaceEdits(t *testing.T) {
	m := &fakeMessenger{}
	p := NewProgress(m, 1, counterFormat, zerolog.Nop())

	p.Start(context.Background(), 10)
	p.Report(context.Background(), 3, 10)
	p.Report(context.Background(), 6, 10)
	p.Finish(context.Background(), "done")

	if len(m.sends) != 1 {
		t.Fatalf("Expected exactly one status message, got %d sends", len(m.sends))
	}
	if len(m.edits) != 3 {
		t.Fatalf("Expected 3 edits, got %d", len(m.edits))
	}
	if m.edits[0] != "3/10" || m.edits[1] != "6/10" || m.edits[2] != "done" {
		t.Errorf("Unexpected edit texts: %v", m.edits)
	}
}

func TestProgress_EditFailureGoesSilent(t *testing.T) {
	m := &fakeMessenger{}
	p := NewProgress(m, 1, counterFormat, zerolog.Nop())

	p.Start(context.Background(), 10)
	m.editErr = errors.New("message to edit not found")

	// Must not panic or propagate the error
	p.Report(context.Background(), 3, 10)

	// Subsequent updates stay silent even after the transport recovers
	m.editErr = nil
	p.Report(context.Background(), 6, 10)
	p.Finish(context.Background(), "done")

	if len(m.edits) != 0 {
		t.Errorf("Expected permanent silence after a failed edit, got %v", m.edits)
	}
}

func TestProgress_SendFailureGoesSilent(t *testing.T) {
	m := &fakeMessenger{sendErr: errors.New("blocked by user")}
	p := NewProgress(m, 1, counterFormat, zerolog.Nop())

	p.Start(context.Background(), 10)
	m.sendErr = nil
	p.Report(context.Background(), 3, 10)

	if len(m.sends) != 0 || len(m.edits) != 0 {
		t.Error("Expected full silence when the status message never sent")
	}
}

func TestProgress_NilReporterIsSafe(t *testing.T) {
	var p *Progress
	p.Start(context.Background(), 10)
	p.Report(context.Background(), 1, 10)
	p.Finish(context.Background(), "done")
}
