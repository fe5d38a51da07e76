package password

import "testing"

func TestHash_SaltsEveryDigest(t *testing.T) {
	h := NewHasher(4) // min cost keeps the test fast

	d1, err := h.Hash("s3cret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	d2, err := h.Hash("s3cret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if d1 == d2 {
		t.Fatalf("expected distinct digests for the same plaintext")
	}
}

func TestVerify_RoundTrip(t *testing.T) {
	h := NewHasher(4)

	d, err := h.Hash("correct horse")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !h.Verify("correct horse", d) {
		t.Fatalf("expected digest to verify")
	}
	if h.Verify("wrong horse", d) {
		t.Fatalf("expected mismatch to fail")
	}
}

func TestVerify_RejectsGarbageDigest(t *testing.T) {
	h := NewHasher(0)
	if h.Verify("anything", "not-a-bcrypt-digest") {
		t.Fatalf("expected malformed digest to fail verification")
	}
}
