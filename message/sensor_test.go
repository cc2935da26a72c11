package message

import "testing"

func TestSensorRoundTrip(t *testing.T) {
	s, err := NewSensor([]float64{2.5, -1.2, 5.8, 0.15, -0.08, 0.22})
	if err != nil {
		t.Fatalf("NewSensor failed: %v", err)
	}
	s.Unit = 0x0101
	s.Status = 1

	encoded, err := s.EncodeBody()
	if err != nil {
		t.Fatalf("EncodeBody failed: %v", err)
	}
	decodedBody, err := DecodeSensor(encoded)
	if err != nil {
		t.Fatalf("DecodeSensor failed: %v", err)
	}
	decoded := decodedBody.(Sensor)
	if decoded.Status != s.Status || decoded.Unit != s.Unit || len(decoded.Data) != len(s.Data) {
		t.Errorf("round trip mismatch: got %+v, want %+v", decoded, s)
	}
	for i := range decoded.Data {
		if decoded.Data[i] != s.Data[i] {
			t.Errorf("Data[%d] = %v, want %v", i, decoded.Data[i], s.Data[i])
		}
	}
}

func TestSensorRejectsTooManyChannels(t *testing.T) {
	if _, err := NewSensor(make([]float64, 256)); err == nil {
		t.Fatal("expected rejection of 256 channels")
	}
}
