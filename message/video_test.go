package message

import "testing"

func TestVideoRoundTrip(t *testing.T) {
	v := Video{Codec: VideoH264, Width: 1920, Height: 1080, FrameData: []byte{1, 2, 3, 4, 5}}
	encoded, err := v.EncodeBody()
	if err != nil {
		t.Fatalf("EncodeBody failed: %v", err)
	}
	if len(encoded) != videoHeaderSize+5 {
		t.Fatalf("encoded length = %d, want %d", len(encoded), videoHeaderSize+5)
	}
	decodedBody, err := DecodeVideo(encoded)
	if err != nil {
		t.Fatalf("DecodeVideo failed: %v", err)
	}
	decoded := decodedBody.(Video)
	if decoded.Codec != v.Codec || decoded.Width != v.Width || decoded.Height != v.Height || string(decoded.FrameData) != string(v.FrameData) {
		t.Errorf("round trip mismatch: got %+v, want %+v", decoded, v)
	}
}

func TestVideoRejectsUnknownCodec(t *testing.T) {
	v := Video{Codec: VideoCodec(99)}
	if _, err := v.EncodeBody(); err == nil {
		t.Fatal("expected rejection of unknown codec")
	}
}

func TestVideoMetaRoundTrip(t *testing.T) {
	vm := VideoMeta{Codec: VideoH264, Width: 1920, Height: 1080, Framerate: 30, BitrateKbps: 8000}
	encoded, err := vm.EncodeBody()
	if err != nil {
		t.Fatalf("EncodeBody failed: %v", err)
	}
	decodedBody, err := DecodeVideoMeta(encoded)
	if err != nil {
		t.Fatalf("DecodeVideoMeta failed: %v", err)
	}
	if decodedBody.(VideoMeta) != vm {
		t.Errorf("round trip mismatch: got %+v, want %+v", decodedBody.(VideoMeta), vm)
	}
	if got, want := vm.BandwidthBytesPerSec(), uint32(1000000); got != want {
		t.Errorf("BandwidthBytesPerSec() = %d, want %d", got, want)
	}
}
