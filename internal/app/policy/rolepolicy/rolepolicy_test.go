package rolepolicy

import "testing"

func TestRank_Ordering(t *testing.T) {
	if !(Rank(RoleViewer) < Rank(RoleEditor)) {
		t.Error("viewer should rank below editor")
	}
	if !(Rank(RoleEditor) < Rank(RoleOwner)) {
		t.Error("editor should rank below owner")
	}
}

func TestRank_Unknown(t *testing.T) {
	tests := []string{"", "admin", "Viewer", "OWNER", "guest"}
	for _, role := range tests {
		if got := Rank(role); got != 0 {
			t.Errorf("Rank(%q) = %d, want 0", role, got)
		}
	}
}

func TestSubsumes(t *testing.T) {
	tests := []struct {
		existing  string
		requested string
		want      bool
	}{
		{RoleViewer, RoleViewer, true},
		{RoleViewer, RoleEditor, false},
		{RoleViewer, RoleOwner, false},
		{RoleEditor, RoleViewer, true},
		{RoleEditor, RoleEditor, true},
		{RoleEditor, RoleOwner, false},
		{RoleOwner, RoleViewer, true},
		{RoleOwner, RoleEditor, true},
		{RoleOwner, RoleOwner, true},
		{"", RoleViewer, false},
		{"unknown", RoleViewer, false},
	}

	for _, tt := range tests {
		t.Run(tt.existing+"_vs_"+tt.requested, func(t *testing.T) {
			got := Subsumes(tt.existing, tt.requested)
			if got != tt.want {
				t.Errorf("Subsumes(%q, %q) = %v, want %v", tt.existing, tt.requested, got, tt.want)
			}
		})
	}
}

func TestValid(t *testing.T) {
	for _, role := range []string{RoleViewer, RoleEditor, RoleOwner} {
		if !Valid(role) {
			t.Errorf("Valid(%q) = false, want true", role)
		}
	}
	for _, role := range []string{"", "admin", "Editor"} {
		if Valid(role) {
			t.Errorf("Valid(%q) = true, want false", role)
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"viewer", "viewer"},
		{"EDITOR", "editor"},
		{"  Owner  ", "owner"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Normalize(tt.input); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
