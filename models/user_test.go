package models

import "testing"

func TestRoleSatisfies(t *testing.T) {
	tests := []struct {
		role     string
		required string
		expected bool
	}{
		{RoleAdmin, RoleAdmin, true},
		{RoleAdmin, RoleEmployee, true},
		{RoleEmployee, RoleEmployee, true},
		{RoleEmployee, RoleAdmin, false},
		// Unknown roles fail-closed.
		{"manager", RoleEmployee, false},
		{RoleAdmin, "manager", false},
		{"", "", false},
		{"", RoleEmployee, false},
	}

	for _, tt := range tests {
		got := RoleSatisfies(tt.role, tt.required)
		if got != tt.expected {
			t.Errorf("RoleSatisfies(%q, %q) = %v, want %v", tt.role, tt.required, got, tt.expected)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		password string
		wantErr  bool
	}{
		{"", true},
		{"short", true},
		{"1234567", true},
		{"12345678", false},
		{"a-valid-password", false},
	}

	for _, tt := range tests {
		err := ValidatePassword(tt.password)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidatePassword(%q) error = %v, wantErr %v", tt.password, err, tt.wantErr)
		}
	}
}

func TestSetAndCheckPassword(t *testing.T) {
	var u User
	if err := u.SetPassword("correct-horse"); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}
	if u.PasswordHash == "correct-horse" {
		t.Error("password stored in plaintext")
	}
	if !u.CheckPassword("correct-horse") {
		t.Error("expected matching password to verify")
	}
	if u.CheckPassword("wrong") {
		t.Error("expected non-matching password to fail")
	}
}
