package domain

import (
	"strings"
	"testing"
	"time"
)

func TestNewPaymentReferenceFormat(t *testing.T) {
	ref := NewPaymentReference()

	if !strings.HasPrefix(ref, "GEO_") {
		t.Errorf("reference %q missing GEO_ prefix", ref)
	}
	if ref != strings.ToUpper(ref) {
		t.Errorf("reference %q is not uppercase", ref)
	}

	parts := strings.Split(ref, "_")
	if len(parts) != 3 {
		t.Fatalf("reference %q: got %d parts, want 3", ref, len(parts))
	}
	if len(parts[2]) != 9 {
		t.Errorf("reference suffix %q: got %d chars, want 9", parts[2], len(parts[2]))
	}
}

func TestNewPaymentReferenceUniqueness(t *testing.T) {
	seen := make(map[string]struct{}, 10000)
	for i := 0; i < 10000; i++ {
		ref := NewPaymentReference()
		if _, dup := seen[ref]; dup {
			t.Fatalf("duplicate reference after %d iterations: %s", i, ref)
		}
		seen[ref] = struct{}{}
	}
}

func TestNewInvoiceNumber(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)
	num := NewInvoiceNumber(now)

	if !strings.HasPrefix(num, "INV-2026-") {
		t.Errorf("invoice number %q missing INV-2026- prefix", num)
	}
	suffix := strings.TrimPrefix(num, "INV-2026-")
	if len(suffix) != 6 {
		t.Errorf("invoice suffix %q: got %d digits, want 6", suffix, len(suffix))
	}
}

func TestNewBatchID(t *testing.T) {
	now := time.Now()

	id := NewBatchID("123e4567-e89b-12d3-a456-426614174000", now)
	if !strings.HasPrefix(id, "BATCH_") {
		t.Errorf("batch id %q missing BATCH_ prefix", id)
	}
	if !strings.HasSuffix(id, "_4000") {
		t.Errorf("batch id %q: want seller tail 4000", id)
	}

	// Short seller ids are used whole.
	short := NewBatchID("ab", now)
	if !strings.HasSuffix(short, "_ab") {
		t.Errorf("batch id %q: want seller tail ab", short)
	}
}
