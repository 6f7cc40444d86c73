package utils

import "testing"

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "s3cret-pass" {
		t.Fatal("password stored unhashed")
	}
	if err := CheckPassword("s3cret-pass", hash); err != nil {
		t.Fatalf("correct password rejected: %v", err)
	}
	if err := CheckPassword("wrong-pass", hash); err == nil {
		t.Fatal("wrong password accepted")
	}
}

func TestGenerateRandomString(t *testing.T) {
	a, err := GenerateRandomString(12)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(a) != 12 {
		t.Fatalf("length: want 12, got %d", len(a))
	}
	b, err := GenerateRandomString(12)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if a == b {
		t.Fatal("two generated strings are identical")
	}
}

func TestIsValidRole(t *testing.T) {
	cases := []struct {
		role string
		want bool
	}{
		{"client", true},
		{"trainer", true},
		{"admin", true},
		{"owner", false},
		{"Client", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := IsValidRole(tc.role); got != tc.want {
			t.Fatalf("IsValidRole(%q): want %v, got %v", tc.role, tc.want, got)
		}
	}
}
