package enums

import "testing"

func TestToneForInstrumentStatus(t *testing.T) {
	tests := []struct {
		status InstrumentStatus
		tone   BadgeTone
	}{
		{InstrumentStatusAvailable, BadgeToneSuccess},
		{InstrumentStatusInUse, BadgeToneInfo},
		{InstrumentStatusMaintenance, BadgeToneWarning},
		{InstrumentStatusOutOfService, BadgeToneDanger},
		{InstrumentStatus("Exploded"), BadgeToneNeutral},
	}
	for _, tt := range tests {
		if got := ToneForInstrumentStatus(tt.status); got != tt.tone {
			t.Fatalf("status %q expected tone %s got %s", tt.status, tt.tone, got)
		}
	}
}

func TestToneForRoomStatusFallsBackToNeutral(t *testing.T) {
	if got := ToneForRoomStatus(RoomStatus("???")); got != BadgeToneNeutral {
		t.Fatalf("expected neutral fallback, got %s", got)
	}
	if got := ToneForRoomStatus(RoomStatusFull); got != BadgeToneDanger {
		t.Fatalf("expected danger for full room, got %s", got)
	}
}

func TestParseRejectsUnknownValues(t *testing.T) {
	if _, err := ParseInstrumentStatus("Broken"); err == nil {
		t.Fatal("expected error for unknown instrument status")
	}
	if _, err := ParseRoomStatus("crowded"); err == nil {
		t.Fatal("expected error for unknown room status")
	}
	if _, err := ParseStaffRole("janitor"); err == nil {
		t.Fatal("expected error for unknown staff role")
	}
}
