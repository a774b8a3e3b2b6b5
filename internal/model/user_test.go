package model

import "testing"

func TestUserIsAdmin(t *testing.T) {
	admin := User{Name: "alice", Role: RoleAdmin}
	if !admin.IsAdmin() {
		t.Error("admin role should report IsAdmin")
	}

	viewer := User{Name: "bob", Role: RoleViewer}
	if viewer.IsAdmin() {
		t.Error("viewer role should not report IsAdmin")
	}
}

func TestIsValidRole(t *testing.T) {
	tests := []struct {
		role string
		want bool
	}{
		{RoleAdmin, true},
		{RoleViewer, true},
		{"editor", false},
		{"", false},
		{"Admin", false},
	}

	for _, tt := range tests {
		if got := IsValidRole(tt.role); got != tt.want {
			t.Errorf("IsValidRole(%q) = %v; want %v", tt.role, got, tt.want)
		}
	}
}

func TestSuggestionIsPending(t *testing.T) {
	s := Suggestion{Status: SuggestionPending}
	if !s.IsPending() {
		t.Error("pending suggestion should report IsPending")
	}
	s.Status = SuggestionApproved
	if s.IsPending() {
		t.Error("approved suggestion should not report IsPending")
	}
}
