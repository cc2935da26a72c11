package message

import (
	"encoding/binary"

	"openigtl/protocol"
)

// VideoCodec identifies the frame encoding carried by a VIDEO message.
type VideoCodec uint8

const (
	VideoH264  VideoCodec = 1
	VideoVP9   VideoCodec = 2
	VideoHEVC  VideoCodec = 3
	VideoMJPEG VideoCodec = 4
	VideoRaw   VideoCodec = 5
)

func validVideoCodec(c VideoCodec) bool {
	switch c {
	case VideoH264, VideoVP9, VideoHEVC, VideoMJPEG, VideoRaw:
		return true
	default:
		return false
	}
}

const videoHeaderSize = 6

// Video carries one encoded video frame for real-time visualization.
type Video struct {
	Codec     VideoCodec
	Width     uint16
	Height    uint16
	FrameData []byte
}

func (Video) TypeName() string { return "VIDEO" }

func (v Video) EncodeBody() ([]byte, error) {
	if !validVideoCodec(v.Codec) {
		return nil, protocol.ErrInvalidSize(0, uint64(v.Codec), "VIDEO unknown codec")
	}
	buf := make([]byte, videoHeaderSize+len(v.FrameData))
	buf[0] = byte(v.Codec)
	binary.BigEndian.PutUint16(buf[1:3], v.Width)
	binary.BigEndian.PutUint16(buf[3:5], v.Height)
	copy(buf[videoHeaderSize:], v.FrameData)
	return buf, nil
}

func DecodeVideo(data []byte) (Body, error) {
	if len(data) < videoHeaderSize {
		return nil, protocol.ErrInvalidSize(videoHeaderSize, uint64(len(data)), "VIDEO header")
	}
	codec := VideoCodec(data[0])
	if !validVideoCodec(codec) {
		return nil, protocol.ErrInvalidSize(0, uint64(codec), "VIDEO unknown codec")
	}
	return Video{
		Codec:     codec,
		Width:     binary.BigEndian.Uint16(data[1:3]),
		Height:    binary.BigEndian.Uint16(data[3:5]),
		FrameData: append([]byte(nil), data[videoHeaderSize:]...),
	}, nil
}
