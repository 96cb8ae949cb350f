package frame

import (
	"errors"
	"fmt"
	"io"
)

// Assembler joins the frames of split messages back together.
// It is not safe for concurrent use.
type Assembler struct {
	buf     []byte
	parts   int
	pending bool
	flags   Flags
}

// Add feeds one decoded frame. It returns the complete message and its
// flags once available: immediately for an unsplit frame, on the FIN frame
// for a split one. ok is false while a split message is still incomplete.
func (a *Assembler) Add(h *Head) (payload []byte, flags Flags, ok bool, err error) {
	switch {
	case h.Flags&FIN != 0:
		if !a.pending {
			return nil, 0, false, fmt.Errorf("%w: FIN without PRT frames", ErrUnexpectedFrame)
		}
		payload, flags = a.buf, a.flags
		a.Reset()
		return payload, flags, true, nil
	case h.Flags&PRT != 0:
		if a.parts == MaxPartial {
			a.Reset()
			return nil, 0, false, ErrTooLarge
		}
		if !a.pending {
			a.flags = h.Flags &^ PRT
		}
		a.pending = true
		a.parts++
		a.buf = append(a.buf, h.Payload...)
		return nil, 0, false, nil
	default:
		if a.pending {
			a.Reset()
			return nil, 0, false, fmt.Errorf("%w: %s frame inside split message", ErrUnexpectedFrame, h.Flags)
		}
		return h.Payload, h.Flags, true, nil
	}
}

// Pending reports whether a split message is partially assembled.
func (a *Assembler) Pending() bool { return a.pending }

// Reset drops any partially assembled message.
func (a *Assembler) Reset() {
	a.buf = nil
	a.parts = 0
	a.pending = false
	a.flags = 0
}

// Reader reads frames from a byte stream.
type Reader struct {
	r   io.Reader
	hdr [HeaderSize]byte
	asm Assembler
}

// NewReader returns a Reader on r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// ReadFrame reads and verifies the next frame. It returns io.EOF only when
// the stream ends on a frame boundary.
func (r *Reader) ReadFrame() (*Head, error) {
	if _, err := io.ReadFull(r.r, r.hdr[:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrShortFrame
		}
		return nil, err
	}

	buf := make([]byte, Overhead+int(r.hdr[2]))
	copy(buf, r.hdr[:])
	if _, err := io.ReadFull(r.r, buf[HeaderSize:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrShortFrame
		}
		return nil, err
	}
	return Decode(buf)
}

// ReadMessage reads frames until a complete message is assembled.
func (r *Reader) ReadMessage() ([]byte, Flags, error) {
	for {
		h, err := r.ReadFrame()
		if err != nil {
			if errors.Is(err, io.EOF) && r.asm.Pending() {
				r.asm.Reset()
				return nil, 0, ErrShortFrame
			}
			return nil, 0, err
		}
		payload, flags, ok, err := r.asm.Add(h)
		if err != nil {
			return nil, 0, err
		}
		if ok {
			return payload, flags, nil
		}
	}
}

// Writer writes messages as frames, numbering each message with an id that
// increments and wraps at 256.
type Writer struct {
	w  io.Writer
	id uint8
}

// NewWriter returns a Writer on w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteMessage encodes payload and writes all its frames. It returns the id
// assigned to the message.
func (w *Writer) WriteMessage(payload []byte, flags Flags) (uint8, error) {
	frames, err := Encode(payload, flags)
	if err != nil {
		return 0, err
	}

	id := w.id
	for _, f := range frames {
		if err := SetID(f, id); err != nil {
			return 0, err
		}
		if _, err := w.w.Write(f); err != nil {
			return 0, err
		}
	}
	w.id++
	return id, nil
}
