package protocol

import (
	"reflect"
	"testing"
)

func TestExtendedHeaderDefault(t *testing.T) {
	eh := NewExtendedHeader()
	if eh.ExtendedHeaderSize != ExtHeaderMinSize {
		t.Errorf("ExtendedHeaderSize = %d, want %d", eh.ExtendedHeaderSize, ExtHeaderMinSize)
	}
	if eh.HasMetadata() {
		t.Error("HasMetadata() = true for fresh header")
	}
}

func TestExtendedHeaderRoundTrip(t *testing.T) {
	eh := ExtendedHeader{
		ExtendedHeaderSize: ExtHeaderMinSize,
		MetadataHeaderSize: 3,
		MetadataSize:       128,
		MessageID:          0xCAFEF00D,
	}
	encoded := eh.Encode()
	if len(encoded) != ExtHeaderMinSize {
		t.Fatalf("encoded length = %d, want %d", len(encoded), ExtHeaderMinSize)
	}

	decoded, err := DecodeExtendedHeader(encoded)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !reflect.DeepEqual(decoded, eh) {
		t.Errorf("round trip mismatch: got %+v, want %+v", decoded, eh)
	}
}

func TestExtendedHeaderAdditionalFields(t *testing.T) {
	eh := NewExtendedHeader()
	eh.SetAdditionalFields([]byte{0xAA, 0xBB, 0xCC})
	if eh.ExtendedHeaderSize != ExtHeaderMinSize+3 {
		t.Fatalf("ExtendedHeaderSize = %d, want %d", eh.ExtendedHeaderSize, ExtHeaderMinSize+3)
	}

	encoded := eh.Encode()
	decoded, err := DecodeExtendedHeader(encoded)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if string(decoded.AdditionalFields) != string(eh.AdditionalFields) {
		t.Errorf("AdditionalFields = %v, want %v", decoded.AdditionalFields, eh.AdditionalFields)
	}
}

func TestExtendedHeaderMetadataHeaderSizeAmbiguityPreserved(t *testing.T) {
	// The raw value is preserved verbatim and readable both ways; this
	// project does not normalize it to either interpretation.
	eh := ExtendedHeader{ExtendedHeaderSize: ExtHeaderMinSize, MetadataHeaderSize: 7}
	if eh.MetadataHeaderSizeRaw() != 7 {
		t.Errorf("MetadataHeaderSizeRaw() = %d, want 7", eh.MetadataHeaderSizeRaw())
	}
	if eh.MetadataEntryCountLegacy() != 7 {
		t.Errorf("MetadataEntryCountLegacy() = %d, want 7", eh.MetadataEntryCountLegacy())
	}
}

func TestExtendedHeaderRejectsUndersizedDeclaration(t *testing.T) {
	buf := NewExtendedHeader().Encode()
	buf[1] = 4 // extended_header_size = 4, below the 12-byte minimum
	if _, err := DecodeExtendedHeader(buf); err == nil {
		t.Fatal("expected rejection of undersized extended_header_size")
	}
}

func TestExtendedHeaderRejectsTruncatedBuffer(t *testing.T) {
	if _, err := DecodeExtendedHeader(make([]byte, 8)); err == nil {
		t.Fatal("expected rejection of short buffer")
	}
}
