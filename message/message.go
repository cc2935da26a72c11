// Package message implements the OpenIGTLink concrete message body
// catalog and the generic envelope that frames a body with a header,
// optional extended header, and optional metadata section.
package message

// Body is the interface every concrete message type implements: a wire
// type name and a symmetric encode/decode pair operating on the body
// bytes only (header, extended header, and metadata framing is the
// envelope's job, not the body's).
type Body interface {
	TypeName() string
	EncodeBody() ([]byte, error)
}

// Decoder is a body's decode half. It is not part of Body because Go
// has no Self-returning instance methods; factories hold a
// func([]byte) (Body, error) per type name instead (see any.go).
type Decoder func(data []byte) (Body, error)
