package frame

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"github.com/hupe1980/crcgo/crc"
)

const (
	// Version is the frame format version written by Encode.
	Version = 0
	// MaxVersion is the highest version Decode accepts.
	MaxVersion = 1
	// HeaderSize is the size of [version|flags][id][length].
	HeaderSize = 3
	// TrailerSize is the size of the CRC-16 trailer.
	TrailerSize = 2
	// Overhead is the number of bytes a frame adds to its payload.
	Overhead = HeaderSize + TrailerSize
	// MaxPayload is the largest payload a single frame carries.
	MaxPayload = 255
	// MaxPartial is the largest number of PRT frames in one message.
	MaxPartial = 64
)

var (
	// ErrShortFrame is returned when a buffer is smaller than the frame it announces.
	ErrShortFrame = errors.New("frame: short frame")
	// ErrVersion is returned for frames with an unsupported version.
	ErrVersion = errors.New("frame: unsupported version")
	// ErrChecksumMismatch is returned when the CRC trailer does not match.
	ErrChecksumMismatch = errors.New("frame: checksum mismatch")
	// ErrTooLarge is returned when a message needs more than MaxPartial frames.
	ErrTooLarge = errors.New("frame: message too large")
	// ErrUnexpectedFrame is returned when frames of a split message arrive out of order.
	ErrUnexpectedFrame = errors.New("frame: unexpected frame")
)

// checksumTable protects every frame with CRC-16/ARC.
var checksumTable = crc.NewTable(crc.CRC16ARC)

// Flags is the 7-bit flag field of a frame.
type Flags uint8

const (
	SYN Flags = 1 << iota // synchronisation
	ACK                   // acknowledgement requested or given
	PRT                   // part of a split message
	FIN                   // end of a split message
	STA                   // station
	DAT                   // data
	AGG                   // aggregate

	NotSet Flags = 0
)

var flagNames = []string{"SYN", "ACK", "PRT", "FIN", "STA", "DAT", "AGG"}

func (f Flags) String() string {
	if f == NotSet {
		return "NOT_SET"
	}
	var parts []string
	for i, name := range flagNames {
		if f&(1<<i) != 0 {
			parts = append(parts, name)
		}
	}
	if rest := f &^ (1<<len(flagNames) - 1); rest != 0 {
		parts = append(parts, fmt.Sprintf("%#x", uint8(rest)))
	}
	return strings.Join(parts, "|")
}

// Head is a decoded frame.
type Head struct {
	Version uint8
	Flags   Flags
	ID      uint8
	Payload []byte
	// CRC is the CRC-16/ARC trailer.
	CRC uint16
}

// Len returns the encoded size of the frame.
func (h *Head) Len() int {
	return Overhead + len(h.Payload)
}

// AppendBinary appends the encoded frame to dst and sets h.CRC.
func (h *Head) AppendBinary(dst []byte) ([]byte, error) {
	if len(h.Payload) > MaxPayload {
		return nil, fmt.Errorf("%w: payload of %d bytes", ErrTooLarge, len(h.Payload))
	}
	if h.Version > MaxVersion {
		return nil, ErrVersion
	}

	start := len(dst)
	dst = append(dst, h.Version<<7|uint8(h.Flags)&0x7F, h.ID, uint8(len(h.Payload)))
	dst = append(dst, h.Payload...)
	h.CRC = checksumTable.Calculate(dst[start:])
	return binary.LittleEndian.AppendUint16(dst, h.CRC), nil
}

// MarshalBinary encodes the frame.
func (h *Head) MarshalBinary() ([]byte, error) {
	return h.AppendBinary(make([]byte, 0, h.Len()))
}

// Decode parses the frame at the start of buf and verifies its checksum.
// Bytes after the frame are ignored. The returned payload is a copy.
func Decode(buf []byte) (*Head, error) {
	if len(buf) < Overhead {
		return nil, ErrShortFrame
	}

	h := &Head{
		Version: buf[0] >> 7,
		Flags:   Flags(buf[0] & 0x7F),
		ID:      buf[1],
	}
	n := int(buf[2])
	if len(buf) < Overhead+n {
		return nil, ErrShortFrame
	}
	if h.Version > MaxVersion {
		return nil, ErrVersion
	}

	body := buf[:HeaderSize+n]
	h.CRC = binary.LittleEndian.Uint16(buf[HeaderSize+n:])
	if got := checksumTable.Calculate(body); got != h.CRC {
		return nil, fmt.Errorf("%w: got %#04x, trailer %#04x", ErrChecksumMismatch, got, h.CRC)
	}

	h.Payload = append([]byte(nil), buf[HeaderSize:HeaderSize+n]...)
	return h, nil
}

// SetID rewrites the id of the encoded frame in buf and refreshes its checksum.
func SetID(buf []byte, id uint8) error {
	if len(buf) < Overhead || len(buf) < Overhead+int(buf[2]) {
		return ErrShortFrame
	}
	end := HeaderSize + int(buf[2])
	buf[1] = id
	binary.LittleEndian.PutUint16(buf[end:], checksumTable.Calculate(buf[:end]))
	return nil
}

// Encode splits payload into frames. Payloads up to MaxPayload fit a single
// frame carrying flags. Larger payloads become a run of frames flagged
// flags|PRT followed by an empty FIN frame that repeats the ACK and PRT bits.
// All frames carry id 0; see SetID.
func Encode(payload []byte, flags Flags) ([][]byte, error) {
	if len(payload) <= MaxPayload {
		h := &Head{Version: Version, Flags: flags, Payload: payload}
		b, err := h.MarshalBinary()
		if err != nil {
			return nil, err
		}
		return [][]byte{b}, nil
	}

	parts := (len(payload) + MaxPayload - 1) / MaxPayload
	if parts > MaxPartial {
		return nil, fmt.Errorf("%w: %d bytes need %d frames", ErrTooLarge, len(payload), parts)
	}

	out := make([][]byte, 0, parts+1)
	for off := 0; off < len(payload); off += MaxPayload {
		end := min(off+MaxPayload, len(payload))
		h := &Head{Version: Version, Flags: flags | PRT, Payload: payload[off:end]}
		b, err := h.MarshalBinary()
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}

	fin := &Head{Version: Version, Flags: FIN | (flags|PRT)&(ACK|PRT)}
	b, err := fin.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return append(out, b), nil
}
