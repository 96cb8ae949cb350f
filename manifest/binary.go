package manifest

import (
	"encoding/binary"
	"fmt"
	"io"
	"time"

	"github.com/hupe1980/crcgo/crc"
	"github.com/hupe1980/crcgo/internal/compress"
	"github.com/hupe1980/crcgo/internal/conv"
)

const (
	binaryMagic   = "CRCM"
	binaryVersion = 1
	headerSize    = 16
)

var payloadCRC, _ = crc.Lookup("CRC-32C")

// WriteBinary writes the manifest in binary form.
//
// Header (16 bytes, little endian):
//
//	Magic       (4 bytes) "CRCM"
//	Version     (2 bytes)
//	Compression (1 byte)  compress.Type of the payload
//	Reserved    (1 byte)
//	Checksum    (4 bytes) CRC-32C of the stored payload
//	Length      (4 bytes) stored payload length
//
// Payload:
//
//	ID (8) CreatedAt (8, unix nanos) Algorithm (string) BlockSize (8)
//	NumEntries (4), then per entry:
//	  Name (string) Encoding (string) Size (8) Checksum (8)
//	  NumBlocks (4) Blocks (8 each)
//
// Strings carry a 2-byte length prefix.
func (m *Manifest) WriteBinary(w io.Writer, ct compress.Type) error {
	pb := &payloadBuffer{buf: make([]byte, 0, 64+len(m.Entries)*64)}

	pb.writeUint64(m.ID)
	pb.writeUint64(uint64(m.CreatedAt.UnixNano()))
	pb.writeString(m.Algorithm)
	pb.writeUint64(uint64(m.BlockSize))
	pb.writeLen(len(m.Entries))
	for _, e := range m.Entries {
		pb.writeString(e.Name)
		pb.writeString(e.Encoding)
		pb.writeUint64(uint64(e.Size))
		pb.writeUint64(e.Checksum)
		pb.writeLen(len(e.Blocks))
		for _, b := range e.Blocks {
			pb.writeUint64(b)
		}
	}
	if pb.err != nil {
		return pb.err
	}

	payload := pb.buf
	if ct != compress.None {
		var err error
		if payload, err = compress.Compress(payload, ct); err != nil {
			return err
		}
	}

	length, err := conv.To[uint32](len(payload))
	if err != nil {
		return fmt.Errorf("manifest: payload: %w", err)
	}

	header := make([]byte, headerSize)
	copy(header[0:4], binaryMagic)
	binary.LittleEndian.PutUint16(header[4:6], binaryVersion)
	header[6] = byte(ct)
	binary.LittleEndian.PutUint32(header[8:12], uint32(payloadCRC.Checksum(payload)))
	binary.LittleEndian.PutUint32(header[12:16], length)

	if _, err := w.Write(header); err != nil {
		return err
	}
	_, err = w.Write(payload)
	return err
}

// ReadBinary reads a manifest written by WriteBinary.
func ReadBinary(r io.Reader) (*Manifest, error) {
	header := make([]byte, headerSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrCorrupt, err)
	}

	if string(header[0:4]) != binaryMagic {
		return nil, fmt.Errorf("%w: invalid magic %q", ErrCorrupt, header[0:4])
	}
	if v := binary.LittleEndian.Uint16(header[4:6]); v != binaryVersion {
		return nil, fmt.Errorf("%w: format version %d", ErrIncompatibleVersion, v)
	}
	ct := compress.Type(header[6])
	checksum := binary.LittleEndian.Uint32(header[8:12])
	length := binary.LittleEndian.Uint32(header[12:16])

	if lr, ok := r.(interface{ Len() int }); ok && uint64(length) > uint64(lr.Len()) {
		return nil, fmt.Errorf("%w: payload length %d, %d bytes left", ErrCorrupt, length, lr.Len())
	}
	// Grow with the data actually read rather than the header's claim.
	payload, err := io.ReadAll(io.LimitReader(r, int64(length)))
	if err != nil {
		return nil, fmt.Errorf("%w: payload: %v", ErrCorrupt, err)
	}
	if len(payload) != int(length) {
		return nil, fmt.Errorf("%w: payload: %v", ErrCorrupt, io.ErrUnexpectedEOF)
	}
	if got := uint32(payloadCRC.Checksum(payload)); got != checksum {
		return nil, fmt.Errorf("%w: checksum %#08x, header %#08x", ErrCorrupt, got, checksum)
	}

	if ct != compress.None {
		var err error
		if payload, err = compress.Decompress(payload, ct); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
	}

	pb := &payloadBuffer{buf: payload}
	m := &Manifest{Version: CurrentVersion}

	m.ID = pb.readUint64()
	m.CreatedAt = time.Unix(0, int64(pb.readUint64())).UTC()
	m.Algorithm = pb.readString()
	m.BlockSize = int64(pb.readUint64())

	n := pb.readUint32()
	if pb.err == nil && uint64(n) > uint64(len(payload)) {
		return nil, fmt.Errorf("%w: %d entries", ErrCorrupt, n)
	}
	m.Entries = make([]Entry, n)
	for i := range m.Entries {
		e := &m.Entries[i]
		e.Name = pb.readString()
		e.Encoding = pb.readString()
		e.Size = int64(pb.readUint64())
		e.Checksum = pb.readUint64()
		nb := pb.readUint32()
		if pb.err != nil {
			break
		}
		if uint64(nb)*8 > uint64(len(payload)-pb.pos) {
			return nil, fmt.Errorf("%w: %d blocks", ErrCorrupt, nb)
		}
		if nb > 0 {
			e.Blocks = make([]uint64, nb)
			for j := range e.Blocks {
				e.Blocks[j] = pb.readUint64()
			}
		}
	}
	if pb.err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, pb.err)
	}
	return m, nil
}

type payloadBuffer struct {
	buf []byte
	pos int
	err error
}

func (p *payloadBuffer) writeUint64(v uint64) {
	if p.err == nil {
		p.buf = binary.LittleEndian.AppendUint64(p.buf, v)
	}
}

func (p *payloadBuffer) writeUint32(v uint32) {
	if p.err == nil {
		p.buf = binary.LittleEndian.AppendUint32(p.buf, v)
	}
}

func (p *payloadBuffer) writeLen(n int) {
	if p.err != nil {
		return
	}
	v, err := conv.To[uint32](n)
	if err != nil {
		p.err = fmt.Errorf("manifest: count: %w", err)
		return
	}
	p.writeUint32(v)
}

func (p *payloadBuffer) writeString(s string) {
	if p.err != nil {
		return
	}
	l, err := conv.To[uint16](len(s))
	if err != nil {
		p.err = fmt.Errorf("manifest: string too long: %w", err)
		return
	}
	p.buf = binary.LittleEndian.AppendUint16(p.buf, l)
	p.buf = append(p.buf, s...)
}

func (p *payloadBuffer) need(n int) bool {
	if p.err != nil {
		return false
	}
	if p.pos+n > len(p.buf) {
		p.err = io.ErrUnexpectedEOF
		return false
	}
	return true
}

func (p *payloadBuffer) readUint64() uint64 {
	if !p.need(8) {
		return 0
	}
	v := binary.LittleEndian.Uint64(p.buf[p.pos:])
	p.pos += 8
	return v
}

func (p *payloadBuffer) readUint32() uint32 {
	if !p.need(4) {
		return 0
	}
	v := binary.LittleEndian.Uint32(p.buf[p.pos:])
	p.pos += 4
	return v
}

func (p *payloadBuffer) readString() string {
	if !p.need(2) {
		return ""
	}
	l := int(binary.LittleEndian.Uint16(p.buf[p.pos:]))
	p.pos += 2
	if !p.need(l) {
		return ""
	}
	s := string(p.buf[p.pos : p.pos+l])
	p.pos += l
	return s
}
