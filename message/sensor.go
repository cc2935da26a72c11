package message

import (
	"encoding/binary"
	"math"

	"openigtl/protocol"
)

const sensorMaxChannels = 255

// Sensor carries a multi-channel array of 64-bit sensor readings (e.g.
// force/torque, IMU, or pressure channels) with a status and a unit code.
type Sensor struct {
	Status uint8
	Unit   uint64
	Data   []float64
}

func NewSensor(data []float64) (Sensor, error) {
	if len(data) > sensorMaxChannels {
		return Sensor{}, protocol.ErrBodyTooLarge(uint64(len(data)), sensorMaxChannels)
	}
	return Sensor{Data: data}, nil
}

func (Sensor) TypeName() string { return "SENSOR" }

func (s Sensor) EncodeBody() ([]byte, error) {
	if len(s.Data) > sensorMaxChannels {
		return nil, protocol.ErrBodyTooLarge(uint64(len(s.Data)), sensorMaxChannels)
	}
	buf := make([]byte, 10+8*len(s.Data))
	buf[0] = byte(len(s.Data))
	buf[1] = s.Status
	binary.BigEndian.PutUint64(buf[2:10], s.Unit)
	for i, v := range s.Data {
		binary.BigEndian.PutUint64(buf[10+i*8:18+i*8], math.Float64bits(v))
	}
	return buf, nil
}

func DecodeSensor(data []byte) (Body, error) {
	if len(data) < 10 {
		return nil, protocol.ErrInvalidSize(10, uint64(len(data)), "SENSOR header")
	}
	larray := int(data[0])
	status := data[1]
	unit := binary.BigEndian.Uint64(data[2:10])
	want := 10 + 8*larray
	if len(data) != want {
		return nil, protocol.ErrInvalidSize(uint64(want), uint64(len(data)), "SENSOR body")
	}
	values := make([]float64, larray)
	for i := range values {
		values[i] = math.Float64frombits(binary.BigEndian.Uint64(data[10+i*8 : 18+i*8]))
	}
	return Sensor{Status: status, Unit: unit, Data: values}, nil
}
