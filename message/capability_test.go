package message

import "testing"

func TestCapabilityRoundTrip(t *testing.T) {
	c := Capability{TypeNames: []string{"TRANSFORM", "IMAGE", "STATUS"}}
	encoded, err := c.EncodeBody()
	if err != nil {
		t.Fatalf("EncodeBody failed: %v", err)
	}
	decodedBody, err := DecodeCapability(encoded)
	if err != nil {
		t.Fatalf("DecodeCapability failed: %v", err)
	}
	decoded := decodedBody.(Capability)
	if len(decoded.TypeNames) != len(c.TypeNames) {
		t.Fatalf("got %d names, want %d", len(decoded.TypeNames), len(c.TypeNames))
	}
	for i := range c.TypeNames {
		if decoded.TypeNames[i] != c.TypeNames[i] {
			t.Errorf("TypeNames[%d] = %q, want %q", i, decoded.TypeNames[i], c.TypeNames[i])
		}
	}
}

func TestCapabilityEmptyRoundTrips(t *testing.T) {
	c := Capability{}
	encoded, err := c.EncodeBody()
	if err != nil {
		t.Fatalf("EncodeBody failed: %v", err)
	}
	decodedBody, err := DecodeCapability(encoded)
	if err != nil {
		t.Fatalf("DecodeCapability failed: %v", err)
	}
	if len(decodedBody.(Capability).TypeNames) != 0 {
		t.Error("expected zero type names")
	}
}
