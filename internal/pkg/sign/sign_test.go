package sign

import "testing"

func TestHMACSHA256Deterministic(t *testing.T) {
	secret := []byte("8gBm/:&EnhH.1/q")
	msg := "total_amount=100,transaction_uuid=11-201-13,product_code=EPAYTEST"

	first := HMACSHA256(secret, msg)
	second := HMACSHA256(secret, msg)
	if first != second {
		t.Fatalf("signature not deterministic: %s vs %s", first, second)
	}
	if !Equal(first, second) {
		t.Fatal("expected signatures to compare equal")
	}
}

func TestEqualRejectsDifferentSignatures(t *testing.T) {
	secret := []byte("secret")
	a := HMACSHA256(secret, "amount=100")
	b := HMACSHA256(secret, "amount=101")
	if Equal(a, b) {
		t.Fatal("expected different messages to produce different signatures")
	}
	if Equal(a, HMACSHA256([]byte("other"), "amount=100")) {
		t.Fatal("expected different secrets to produce different signatures")
	}
}
