package models

import "testing"

func TestReasonClassification(t *testing.T) {
	tests := []struct {
		code     ReasonCode
		standing bool
		instant  bool
	}{
		{ReasonSick, true, false},
		{ReasonVacation, true, false},
		{ReasonOrder, false, true},
		{ReasonDormDuty, false, true},
		{ReasonCollegeDuty, false, true},
		{ReasonEnlistment, false, true},
		{ReasonOther, false, false},
		{ReasonCancel, false, false},
	}

	for _, tt := range tests {
		if got := tt.code.Standing(); got != tt.standing {
			t.Errorf("%s: Standing() = %v, want %v", tt.code, got, tt.standing)
		}
		if got := tt.code.Instant(); got != tt.instant {
			t.Errorf("%s: Instant() = %v, want %v", tt.code, got, tt.instant)
		}
	}
}

func TestReasonLabels(t *testing.T) {
	if ReasonSick.Label() == "" {
		t.Error("sick must carry a label")
	}
	if ReasonOther.Label() != "" {
		t.Error("other carries no predefined label")
	}
	if ReasonCancel.Label() != "" {
		t.Error("cancel carries no predefined label")
	}
}
