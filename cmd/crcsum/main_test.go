package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestSumStdin(t *testing.T) {
	code, out, _ := runCLI(t, "123456789")
	assert.Equal(t, 0, code)
	assert.Equal(t, "3808858755  -\n", out)

	code, out, _ = runCLI(t, "123456789", "-hex", "-a", "crc16arc")
	assert.Equal(t, 0, code)
	assert.Equal(t, "bb3d  -\n", out)

	code, out, _ = runCLI(t, "123456789", "-hex", "-a", "CRC-64/XZ")
	assert.Equal(t, 0, code)
	assert.Equal(t, "995dc9bbdf1939fa  -\n", out)
}

func TestSumFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	require.NoError(t, os.WriteFile(a, []byte("123456789"), 0o644))

	code, out, errOut := runCLI(t, "", "-hex", a, filepath.Join(dir, "missing"))
	assert.Equal(t, 1, code)
	assert.Equal(t, "e3069283  "+a+"\n", out)
	assert.Contains(t, errOut, "missing")
}

func TestSumBits(t *testing.T) {
	code, out, _ := runCLI(t, "123456789", "-hex", "-bits", "72")
	assert.Equal(t, 0, code)
	assert.Equal(t, "e3069283  -\n", out)

	code, _, errOut := runCLI(t, "1", "-bits", "9")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "fewer than 9")
}

func TestUnknownAlgorithm(t *testing.T) {
	code, _, errOut := runCLI(t, "", "-a", "crc-99")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "unknown crc algorithm")
}

func TestListAndCheck(t *testing.T) {
	code, out, _ := runCLI(t, "", "-list")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "CRC-32C")
	assert.Contains(t, out, "e3069283")
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 20)

	code, out, _ = runCLI(t, "", "-check")
	assert.Equal(t, 0, code)
	assert.NotContains(t, out, "FAIL")
	assert.Contains(t, out, "ok    CRC-16/ARC")
}

func TestSnapshotVerify(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "logs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "logs", "a.log"), bytes.Repeat([]byte("a"), 3000), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.dat"), []byte("b"), 0o644))

	code, out, errOut := runCLI(t, "", "verify", dir)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "no manifest committed")

	code, out, errOut = runCLI(t, "", "snapshot", "-block-size", "1024", dir)
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, "manifest 1: 2 entries, 3001 bytes, CRC-32C\n", out)

	code, out, _ = runCLI(t, "", "verify", "file://"+dir)
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "manifest 1: 2 checked, 0 corrupt, 0 missing")

	data := bytes.Repeat([]byte("a"), 3000)
	data[2500] = 'b'
	require.NoError(t, os.WriteFile(filepath.Join(dir, "logs", "a.log"), data, 0o644))
	require.NoError(t, os.Remove(filepath.Join(dir, "b.dat")))

	code, out, _ = runCLI(t, "", "verify", dir)
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "CORRUPT  logs/a.log  blocks [2]")
	assert.Contains(t, out, "MISSING  b.dat")

	code, out, _ = runCLI(t, "", "snapshot", "-json", "-codec", "go-json", "-a", "crc64xz", dir, "logs/")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, `"algorithm":"CRC-64/XZ"`)
	assert.Contains(t, out, `"id":2`)

	code, out, _ = runCLI(t, "", "verify", "-version", "1", dir)
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "manifest 1:")
}

func TestOpenStoreErrors(t *testing.T) {
	ctx := context.Background()
	for _, raw := range []string{"ftp://host/x", "file://", "minio://host:9000"} {
		_, err := openStore(ctx, raw, "")
		assert.Error(t, err, raw)
	}

	s, err := openStore(ctx, "minio://localhost:9000/bucket/prefix", "")
	require.NoError(t, err)
	assert.NotNil(t, s)
}

func TestUsageErrors(t *testing.T) {
	code, _, _ := runCLI(t, "", "snapshot")
	assert.Equal(t, 2, code)

	code, _, _ = runCLI(t, "", "verify", "a", "b")
	assert.Equal(t, 2, code)

	code, _, _ = runCLI(t, "", "-nope")
	assert.Equal(t, 2, code)

	code, _, errOut := runCLI(t, "", "snapshot", "-codec", "yaml", t.TempDir())
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, `unknown codec "yaml"`)
}
