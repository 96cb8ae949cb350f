package crc

import (
	"hash"
	"sort"
	"strings"

	fasthash "github.com/hupe1980/crcgo/internal/hash"
)

// Engine is a width-independent view of a CRC variant, used where the
// variant is chosen at runtime (by name, from a manifest, on the command line).
// CRC values are carried in the low Width bits of a uint64.
type Engine interface {
	// Name returns the catalogue name of the variant.
	Name() string
	// Width returns the register width in bits.
	Width() int
	// Size returns the number of bytes Sum appends.
	Size() int
	// Check returns the published CRC of CheckString.
	Check() uint64
	// Checksum returns the CRC of data.
	Checksum(data []byte) uint64
	// Update continues a CRC computation from a previously returned value.
	Update(crc uint64, data []byte) uint64
	// ChecksumBits returns the CRC of the first nbits bits of data.
	ChecksumBits(data []byte, nbits int) uint64
	// New returns a streaming hash for the variant.
	New() hash.Hash64
}

// Erase wraps a Table as an Engine.
func Erase[T Register](t *Table[T]) Engine {
	return tableEngine[T]{t: t}
}

type tableEngine[T Register] struct {
	t *Table[T]
}

func (e tableEngine[T]) Name() string  { return e.t.params.Name }
func (e tableEngine[T]) Width() int    { return e.t.params.Width }
func (e tableEngine[T]) Size() int     { return byteSize(e.t.params.Width) }
func (e tableEngine[T]) Check() uint64 { return uint64(e.t.params.Check) }

func (e tableEngine[T]) Checksum(data []byte) uint64 {
	return uint64(e.t.Calculate(data))
}

func (e tableEngine[T]) Update(crc uint64, data []byte) uint64 {
	return uint64(e.t.Update(T(crc), data))
}

func (e tableEngine[T]) ChecksumBits(data []byte, nbits int) uint64 {
	return uint64(e.t.CalculateBits(data, nbits))
}

func (e tableEngine[T]) New() hash.Hash64 {
	return NewDigest(e.t)
}

// acceleratedEngine serves the reflected 32-bit variants that have
// hardware support.
type acceleratedEngine struct {
	params   Parameters[uint32]
	table    *Table[uint32]
	checksum func([]byte) uint32
	update   func(uint32, []byte) uint32
	newHash  func() hash.Hash32
}

func (e acceleratedEngine) Name() string  { return e.params.Name }
func (e acceleratedEngine) Width() int    { return 32 }
func (e acceleratedEngine) Size() int     { return 4 }
func (e acceleratedEngine) Check() uint64 { return uint64(e.params.Check) }

func (e acceleratedEngine) Checksum(data []byte) uint64 {
	return uint64(e.checksum(data))
}

func (e acceleratedEngine) Update(crc uint64, data []byte) uint64 {
	return uint64(e.update(uint32(crc), data))
}

// ChecksumBits falls back to the table for inputs that end mid-byte.
func (e acceleratedEngine) ChecksumBits(data []byte, nbits int) uint64 {
	if nbits%8 == 0 && nbits/8 <= len(data) {
		return e.Checksum(data[:nbits/8])
	}
	return uint64(e.table.CalculateBits(data, nbits))
}

func (e acceleratedEngine) New() hash.Hash64 {
	return hash32As64{e.newHash()}
}

type hash32As64 struct {
	hash.Hash32
}

func (h hash32As64) Sum64() uint64 { return uint64(h.Sum32()) }

var (
	engines = map[string]Engine{}
	aliases = map[string]string{}
)

func register(e Engine, alias ...string) {
	key := normalize(e.Name())
	engines[key] = e
	for _, a := range alias {
		aliases[normalize(a)] = key
	}
}

func init() {
	register(Erase(NewTable(CRC5USB)))
	register(Erase(NewTable(CRC8)), "CRC-8/SMBUS")
	register(Erase(NewTable(CRC8Maxim)), "CRC-8/MAXIM-DOW", "DOW-CRC")
	register(Erase(NewTable(CRC16ARC)), "CRC-16", "CRC-16/IBM", "ARC")
	register(Erase(NewTable(CRC16Buypass)), "CRC-16/UMTS")
	register(Erase(NewTable(CRC16CCITTFalse)), "CRC-16/IBM-3740", "CRC-16/AUTOSAR")
	register(Erase(NewTable(CRC16Genibus)), "CRC-16/DARC", "CRC-16/EPC")
	register(Erase(NewTable(CRC16Kermit)), "CRC-16/CCITT", "CRC-16/CCITT-TRUE")
	register(Erase(NewTable(CRC16Modbus)), "MODBUS")
	register(Erase(NewTable(CRC16X25)), "CRC-16/IBM-SDLC", "X-25")
	register(Erase(NewTable(CRC16XModem)), "CRC-16/ACORN", "XMODEM", "ZMODEM")
	register(Erase(NewTable(CRC24OpenPGP)), "CRC-24")
	register(acceleratedEngine{
		params:   CRC32,
		table:    NewTable(CRC32),
		checksum: fasthash.IEEE,
		update:   fasthash.UpdateIEEE,
		newHash:  fasthash.NewIEEE,
	}, "CRC-32/ISO-HDLC", "CRC-32/IEEE", "PKZIP")
	register(acceleratedEngine{
		params:   CRC32C,
		table:    NewTable(CRC32C),
		checksum: fasthash.CRC32C,
		update:   fasthash.UpdateCRC32C,
		newHash:  fasthash.NewCRC32C,
	}, "CRC-32/ISCSI", "CRC-32/CASTAGNOLI")
	register(Erase(NewTable(CRC32BZIP2)), "CRC-32/AAL5")
	register(Erase(NewTable(CRC32MPEG2)))
	register(Erase(NewTable(CRC32POSIX)), "CKSUM")
	register(Erase(NewTable(CRC64ECMA)))
	register(Erase(NewTable(CRC64XZ)), "CRC-64/GO-ECMA")
}

// Lookup returns the engine registered under name. Matching ignores case
// and the separators '-', '/', '_' and ' ', so "CRC-16/ARC" and "crc16arc"
// are the same name. Common aliases are accepted.
func Lookup(name string) (Engine, bool) {
	key := normalize(name)
	if e, ok := engines[key]; ok {
		return e, true
	}
	if target, ok := aliases[key]; ok {
		return engines[target], true
	}
	return nil, false
}

// Engines returns all registered engines ordered by width, then name.
func Engines() []Engine {
	out := make([]Engine, 0, len(engines))
	for _, e := range engines {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Width() != out[j].Width() {
			return out[i].Width() < out[j].Width()
		}
		return out[i].Name() < out[j].Name()
	})
	return out
}

func normalize(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '-', '/', '_', ' ':
			return -1
		}
		return r
	}, strings.ToLower(name))
}
