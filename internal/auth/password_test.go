package auth

import (
	"errors"
	"strings"
	"testing"
)

func TestPasswordHashingLifecycle(t *testing.T) {
	password := "S3curePass!"
	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("unexpected error hashing password: %v", err)
	}
	if hash == "" {
		t.Fatal("expected hash to be populated")
	}
	if !strings.Contains(hash, ".") {
		t.Fatalf("expected stored form <key>.<salt>, got %q", hash)
	}

	ok, err := VerifyPassword(password, hash)
	if err != nil {
		t.Fatalf("unexpected error verifying password: %v", err)
	}
	if !ok {
		t.Fatal("expected password to verify")
	}

	ok, err = VerifyPassword("wrong", hash)
	if err != nil {
		t.Fatalf("unexpected error verifying wrong password: %v", err)
	}
	if ok {
		t.Fatal("expected verification to fail for wrong password")
	}
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	if _, err := HashPassword("   "); err == nil {
		t.Fatal("expected error for blank password")
	}
}

func TestHashPasswordUniqueSalts(t *testing.T) {
	first, err := HashPassword("same-password")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := HashPassword("same-password")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first == second {
		t.Fatal("expected distinct salts to produce distinct stored forms")
	}
}

func TestVerifyPasswordMalformedStoredForm(t *testing.T) {
	cases := []string{
		"no-delimiter",
		".deadbeef",
		"deadbeef.",
		"nothex.deadbeef",
		"deadbeef.nothex",
	}
	for _, stored := range cases {
		if _, err := VerifyPassword("whatever", stored); !errors.Is(err, ErrMalformedHash) {
			t.Fatalf("stored form %q: expected ErrMalformedHash, got %v", stored, err)
		}
	}
}
