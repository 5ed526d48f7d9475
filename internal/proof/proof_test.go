package proof

import (
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	p := Payload{
		UserID:          42,
		IssuerID:        7,
		CertificateName: "Go Fundamentals",
		CertificateID:   "0b1f4a3e-9c2d-4f6a-8e1b-2d3c4f5a6b7c",
	}

	img, err := Encode(p)
	if err != nil {
		t.Fatalf("Encode() failed: %v", err)
	}
	if len(img) == 0 {
		t.Fatal("Encode() returned empty image")
	}

	raw, err := Decode(img)
	if err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}

	got, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}

	if got != p {
		t.Errorf("Round trip mismatch: got %+v, want %+v", got, p)
	}
}

func TestParse_NonJSON(t *testing.T) {
	if _, err := Parse("https://example.com/not-a-payload"); err == nil {
		t.Error("Parse() should fail for a non-JSON payload string")
	}
}

func TestParse_MissingCertificateID(t *testing.T) {
	if _, err := Parse(`{"user":1,"issuedBy":2,"certificateName":"x"}`); err == nil {
		t.Error("Parse() should fail when certificateId is absent")
	}
}

func TestDecode_NotAnImage(t *testing.T) {
	if _, err := Decode([]byte("definitely not an image")); err == nil {
		t.Error("Decode() should fail for non-image bytes")
	}
}
