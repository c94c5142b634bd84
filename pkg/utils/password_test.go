package utils

import (
	"strings"
	"testing"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("s3nha-forte")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	if !strings.Contains(hash, ".") {
		t.Fatalf("encoded hash missing salt separator: %q", hash)
	}

	if err := VerifyPassword("s3nha-forte", hash); err != nil {
		t.Errorf("correct password rejected: %v", err)
	}
	if err := VerifyPassword("senha-errada", hash); err == nil {
		t.Error("wrong password accepted")
	}
}

func TestHashPasswordEmpty(t *testing.T) {
	if _, err := HashPassword(""); err == nil {
		t.Error("expected error for empty password")
	}
}

func TestHashPasswordUniqueSalts(t *testing.T) {
	a, err := HashPassword("mesma-senha")
	if err != nil {
		t.Fatal(err)
	}
	b, err := HashPassword("mesma-senha")
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Error("two hashes of the same password share a salt")
	}
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	for _, encoded := range []string{"", "sem-separador", "a.b.c", "!!!.###"} {
		if err := VerifyPassword("qualquer", encoded); err == nil {
			t.Errorf("malformed hash %q accepted", encoded)
		}
	}
}
