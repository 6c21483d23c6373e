package credential

import (
	"strings"
	"testing"
)

func TestDeriveVerifyRoundTrip(t *testing.T) {
	for _, password := range []string{"Passw0rd!", "", "пароль", strings.Repeat("x", 200)} {
		salt, hash, err := Derive(password)
		if err != nil {
			t.Fatalf("Derive(%q) failed: %v", password, err)
		}
		if !Verify(salt, hash, password) {
			t.Errorf("Verify rejected the password it was derived from (%q)", password)
		}
	}
}

func TestVerifyRejectsWrongPassword(t *testing.T) {
	salt, hash, err := Derive("correct horse battery staple")
	if err != nil {
		t.Fatalf("Derive failed: %v", err)
	}
	if Verify(salt, hash, "correct horse battery stapl") {
		t.Error("Verify accepted a wrong password")
	}
	if Verify(salt, hash, "") {
		t.Error("Verify accepted the empty password against a non-empty credential")
	}
}

func TestDeriveSaltsAreUnique(t *testing.T) {
	salt1, hash1, err := Derive("same password")
	if err != nil {
		t.Fatalf("Derive failed: %v", err)
	}
	salt2, hash2, err := Derive("same password")
	if err != nil {
		t.Fatalf("Derive failed: %v", err)
	}
	if salt1 == salt2 {
		t.Error("two derivations produced the same salt")
	}
	if hash1 == hash2 {
		t.Error("two derivations produced the same hash")
	}
}

func TestVerifyMalformedInputs(t *testing.T) {
	salt, hash, err := Derive("secret")
	if err != nil {
		t.Fatalf("Derive failed: %v", err)
	}

	cases := []struct {
		name string
		salt string
		hash string
	}{
		{"non-hex salt", "zz" + salt[2:], hash},
		{"non-hex hash", salt, "zz" + hash[2:]},
		{"truncated salt", salt[:8], hash},
		{"truncated hash", salt, hash[:16]},
		{"empty salt", "", hash},
		{"empty hash", salt, ""},
		{"odd-length hex", salt + "a", hash},
	}
	for _, tc := range cases {
		if Verify(tc.salt, tc.hash, "secret") {
			t.Errorf("%s: Verify returned true for malformed credential", tc.name)
		}
	}
}
