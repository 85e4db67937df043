package hash

import "testing"

func TestBcryptHashVerify(t *testing.T) {
	h := NewBcrypt(4, "pepper")

	hashed, err := h.Hash("483920")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	if !h.Verify(string(hashed), "483920") {
		t.Fatal("expected matching code to verify")
	}
	if h.Verify(string(hashed), "483921") {
		t.Fatal("expected mismatching code to fail")
	}
}

func TestBcryptPepperChangesOutcome(t *testing.T) {
	a := NewBcrypt(4, "one")
	b := NewBcrypt(4, "two")

	hashed, err := a.Hash("123456")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	if b.Verify(string(hashed), "123456") {
		t.Fatal("verify must fail under a different pepper")
	}
}
