package crc

import (
	"hash/crc32"
	"hash/crc64"
	"io"
	"strings"
	"testing"

	"github.com/hupe1980/crcgo/testutil"
	"github.com/sigurn/crc16"
	"github.com/sigurn/crc8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	for _, name := range []string{"CRC-16/ARC", "crc16arc", "crc_16_arc", "ARC", "CRC-16/IBM"} {
		e, ok := Lookup(name)
		require.True(t, ok, name)
		assert.Equal(t, "CRC-16/ARC", e.Name())
	}

	_, ok := Lookup("CRC-17/NOPE")
	assert.False(t, ok)
}

func TestEnginesCheckValues(t *testing.T) {
	engines := Engines()
	require.Len(t, engines, 19)

	check := []byte(CheckString)
	for _, e := range engines {
		t.Run(e.Name(), func(t *testing.T) {
			assert.Equal(t, e.Check(), e.Checksum(check))
			assert.Equal(t, (e.Width()+7)/8, e.Size())

			h := e.New()
			_, err := io.Copy(h, strings.NewReader(CheckString))
			require.NoError(t, err)
			assert.Equal(t, e.Check(), h.Sum64())
			assert.Len(t, h.Sum(nil), e.Size())
		})
	}

	for i := 1; i < len(engines); i++ {
		assert.LessOrEqual(t, engines[i-1].Width(), engines[i].Width())
	}
}

func TestEngineStreaming(t *testing.T) {
	data := testutil.NewRNG(8).Bytes(1000)
	for _, e := range Engines() {
		t.Run(e.Name(), func(t *testing.T) {
			whole := e.Checksum(data)
			assert.Equal(t, whole, e.Update(e.Checksum(data[:333]), data[333:]))
		})
	}
}

func TestEngineChecksumBits(t *testing.T) {
	data := testutil.NewRNG(9).Bytes(64)
	for _, e := range Engines() {
		t.Run(e.Name(), func(t *testing.T) {
			assert.Equal(t, e.Checksum(data), e.ChecksumBits(data, len(data)*8))
			assert.Equal(t, e.Checksum(data[:10]), e.ChecksumBits(data, 80))
		})
	}

	arc, _ := Lookup("CRC-16/ARC")
	assert.Equal(t, uint64(CalculateBits(data, 13, CRC16ARC)), arc.ChecksumBits(data, 13))

	c32, _ := Lookup("CRC-32")
	assert.Equal(t, uint64(CalculateBits(data, 45, CRC32)), c32.ChecksumBits(data, 45))
}

func TestAcceleratedMatchesTable(t *testing.T) {
	rng := testutil.NewRNG(1)
	cases := []struct {
		name  string
		table *Table[uint32]
	}{
		{"CRC-32", NewTable(CRC32)},
		{"CRC-32C", NewTable(CRC32C)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e, ok := Lookup(tc.name)
			require.True(t, ok)
			_, accelerated := e.(acceleratedEngine)
			assert.True(t, accelerated)

			for _, n := range []int{0, 1, 15, 16, 17, 255, 4096} {
				data := rng.Bytes(n)
				assert.Equal(t, uint64(tc.table.Calculate(data)), e.Checksum(data), "len=%d", n)
			}
		})
	}
}

func TestCrossCheckStandardLibrary(t *testing.T) {
	data := testutil.NewRNG(2024).Bytes(2048)

	assert.Equal(t, crc32.ChecksumIEEE(data), NewTable(CRC32).Calculate(data))
	assert.Equal(t, crc32.Checksum(data, crc32.MakeTable(crc32.Castagnoli)), NewTable(CRC32C).Calculate(data))
	assert.Equal(t, crc64.Checksum(data, crc64.MakeTable(crc64.ECMA)), NewTable(CRC64XZ).Calculate(data))
}

func TestCrossCheckSigurn(t *testing.T) {
	data := testutil.NewRNG(77).Bytes(512)

	cases16 := []Parameters[uint16]{
		CRC16ARC, CRC16Buypass, CRC16CCITTFalse, CRC16Genibus,
		CRC16Kermit, CRC16Modbus, CRC16X25, CRC16XModem,
	}
	for _, p := range cases16 {
		t.Run(p.Name, func(t *testing.T) {
			table := crc16.MakeTable(crc16.Params{
				Poly:   p.Polynomial,
				Init:   p.Init,
				RefIn:  p.ReflectInput,
				RefOut: p.ReflectOutput,
				XorOut: p.FinalXOR,
				Check:  p.Check,
				Name:   p.Name,
			})
			assert.Equal(t, crc16.Checksum(data, table), NewTable(p).Calculate(data))
		})
	}

	for _, p := range []Parameters[uint8]{CRC8, CRC8Maxim} {
		t.Run(p.Name, func(t *testing.T) {
			table := crc8.MakeTable(crc8.Params{
				Poly:   p.Polynomial,
				Init:   p.Init,
				RefIn:  p.ReflectInput,
				RefOut: p.ReflectOutput,
				XorOut: p.FinalXOR,
				Check:  p.Check,
				Name:   p.Name,
			})
			assert.Equal(t, crc8.Checksum(data, table), NewTable(p).Calculate(data))
		})
	}
}

func TestDigest(t *testing.T) {
	table := NewTable(CRC16XModem)
	d := NewDigest(table)

	assert.Equal(t, 2, d.Size())
	assert.Equal(t, 1, d.BlockSize())

	_, err := d.Write([]byte("1234"))
	require.NoError(t, err)
	_, err = d.Write([]byte("56789"))
	require.NoError(t, err)

	assert.Equal(t, uint16(0x31C3), d.Value())
	assert.Equal(t, uint64(0x31C3), d.Sum64())
	assert.Equal(t, []byte{0xAA, 0x31, 0xC3}, d.Sum([]byte{0xAA}))

	d.Reset()
	assert.Equal(t, table.Calculate(nil), d.Value())
}

func TestDigestSumLength(t *testing.T) {
	d := NewDigest(NewTable(CRC24OpenPGP))
	_, _ = d.Write([]byte(CheckString))
	assert.Equal(t, []byte{0x21, 0xCF, 0x02}, d.Sum(nil))

	d5 := NewDigest(NewTable(CRC5USB))
	_, _ = d5.Write([]byte(CheckString))
	assert.Equal(t, []byte{0x19}, d5.Sum(nil))
}
