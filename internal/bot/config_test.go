package bot

import "testing"

func TestParseIDList(t *testing.T) {
	ids, err := ParseIDList("1310818613, 5054882870,5115418851")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(ids) != 3 || ids[0] != 1310818613 || ids[2] != 5115418851 {
		t.Fatalf("unexpected ids: %v", ids)
	}
}

func TestParseIDListEmpty(t *testing.T) {
	ids, err := ParseIDList("")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("expected no ids, got %v", ids)
	}
}

func TestParseIDListInvalid(t *testing.T) {
	if _, err := ParseIDList("12,abc"); err == nil {
		t.Fatal("expected error for non-numeric id")
	}
}

func TestAccessConfigMembership(t *testing.T) {
	cfg := AccessConfig{
		SuperAdminIDs:  []int64{1},
		AllowedUserIDs: []int64{1, 2},
	}

	if !cfg.IsSuperAdmin(1) || cfg.IsSuperAdmin(2) {
		t.Error("super-admin membership wrong")
	}
	if !cfg.IsAllowed(2) || cfg.IsAllowed(3) {
		t.Error("allowed membership wrong")
	}
}
