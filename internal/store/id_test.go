package store

import (
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestGenerateNumberFormat(t *testing.T) {
	num, err := GenerateNumber("M")
	if err != nil {
		t.Fatalf("generate number: %v", err)
	}

	wantPrefix := fmt.Sprintf("M%d-", time.Now().Year())
	if !strings.HasPrefix(num, wantPrefix) {
		t.Errorf("number = %q, want prefix %q", num, wantPrefix)
	}
	suffix := strings.TrimPrefix(num, wantPrefix)
	if len(suffix) != idSuffixLen {
		t.Errorf("suffix length = %d, want %d", len(suffix), idSuffixLen)
	}
	for _, c := range suffix {
		if !strings.ContainsRune(idAlphabet, c) {
			t.Errorf("suffix char %q not in alphabet", c)
		}
	}
}

func TestGenerateNumberUnique(t *testing.T) {
	seen := make(map[string]bool)
	for range 50 {
		num, err := GenerateNumber("E")
		if err != nil {
			t.Fatalf("generate number: %v", err)
		}
		if seen[num] {
			t.Fatalf("duplicate number %q", num)
		}
		seen[num] = true
	}
}
