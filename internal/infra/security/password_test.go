package security

import (
	"strings"
	"testing"
)

func TestHashPasswordAndVerifySuccess(t *testing.T) {
	password := "correct horse battery staple"

	salt, err := GenerateSalt()
	if err != nil {
		t.Fatalf("GenerateSalt returned error: %v", err)
	}

	encoded, err := HashPassword(password, salt)
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}

	if encoded == "" {
		t.Fatal("HashPassword returned empty string")
	}

	if !VerifyPassword(password, salt, encoded) {
		t.Fatal("VerifyPassword returned false for correct password")
	}
}

func TestVerifyPasswordIncorrectPassword(t *testing.T) {
	salt, err := GenerateSalt()
	if err != nil {
		t.Fatalf("GenerateSalt returned error: %v", err)
	}

	encoded, err := HashPassword("correct horse battery staple", salt)
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}

	if VerifyPassword("Tr0ub4dor&3", salt, encoded) {
		t.Fatal("VerifyPassword returned true for incorrect password")
	}
}

func TestVerifyPasswordWrongSalt(t *testing.T) {
	password := "correct horse battery staple"

	encoded, err := HashPassword(password, "aaaaaaaaaaaaaaaa")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}

	if VerifyPassword(password, "bbbbbbbbbbbbbbbb", encoded) {
		t.Fatal("VerifyPassword returned true with a different salt")
	}
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	if VerifyPassword("password", "salt", "not-a-bcrypt-hash") {
		t.Fatal("VerifyPassword returned true for malformed stored hash")
	}
}

func TestVerifyPasswordEmptyInputs(t *testing.T) {
	if VerifyPassword("", "", "") {
		t.Fatal("VerifyPassword should return false for empty inputs")
	}
}

func TestHashPasswordDistinctSaltsDistinctHashes(t *testing.T) {
	password := "same password"

	first, err := HashPassword(password, "aaaaaaaaaaaaaaaa")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}

	second, err := HashPassword(password, "bbbbbbbbbbbbbbbb")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}

	if first == second {
		t.Fatal("identical password with different salts produced identical hashes")
	}
}

func TestGenerateSaltFormat(t *testing.T) {
	seen := make(map[string]bool)

	for i := 0; i < 32; i++ {
		salt, err := GenerateSalt()
		if err != nil {
			t.Fatalf("GenerateSalt returned error: %v", err)
		}

		if len(salt) != saltLength {
			t.Fatalf("expected salt of length %d, got %d", saltLength, len(salt))
		}

		for _, r := range salt {
			if !strings.ContainsRune(saltAlphabet, r) {
				t.Fatalf("salt contains unexpected character %q", r)
			}
		}

		if seen[salt] {
			t.Fatalf("duplicate salt generated: %s", salt)
		}
		seen[salt] = true
	}
}
