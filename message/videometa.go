package message

import (
	"encoding/binary"

	"openigtl/protocol"
)

const videoMetaBodySize = 1 + 2 + 2 + 1 + 4 + 2

// VideoMeta describes a video stream's encoding parameters, sent once
// at stream start rather than on every VIDEO frame.
type VideoMeta struct {
	Codec     VideoCodec
	Width     uint16
	Height    uint16
	Framerate uint8
	BitrateKbps uint32
}

// BandwidthBytesPerSec estimates the stream's steady-state bandwidth.
func (v VideoMeta) BandwidthBytesPerSec() uint32 {
	return v.BitrateKbps * 1000 / 8
}

func (VideoMeta) TypeName() string { return "VIDEOMETA" }

func (v VideoMeta) EncodeBody() ([]byte, error) {
	if !validVideoCodec(v.Codec) {
		return nil, protocol.ErrInvalidSize(0, uint64(v.Codec), "VIDEOMETA unknown codec")
	}
	buf := make([]byte, videoMetaBodySize)
	buf[0] = byte(v.Codec)
	binary.BigEndian.PutUint16(buf[1:3], v.Width)
	binary.BigEndian.PutUint16(buf[3:5], v.Height)
	buf[5] = v.Framerate
	binary.BigEndian.PutUint32(buf[6:10], v.BitrateKbps)
	return buf, nil
}

func DecodeVideoMeta(data []byte) (Body, error) {
	if len(data) != videoMetaBodySize {
		return nil, protocol.ErrInvalidSize(videoMetaBodySize, uint64(len(data)), "VIDEOMETA body")
	}
	codec := VideoCodec(data[0])
	if !validVideoCodec(codec) {
		return nil, protocol.ErrInvalidSize(0, uint64(codec), "VIDEOMETA unknown codec")
	}
	return VideoMeta{
		Codec:       codec,
		Width:       binary.BigEndian.Uint16(data[1:3]),
		Height:      binary.BigEndian.Uint16(data[3:5]),
		Framerate:   data[5],
		BitrateKbps: binary.BigEndian.Uint32(data[6:10]),
	}, nil
}
