// Command crcsum computes CRC checksums of files and snapshots or verifies
// blob stores against committed manifests.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	"github.com/hupe1980/crcgo"
	"github.com/hupe1980/crcgo/codec"
	"github.com/hupe1980/crcgo/crc"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) > 0 {
		switch args[0] {
		case "snapshot":
			return runSnapshot(ctx, args[1:], stdout, stderr)
		case "verify":
			return runVerify(ctx, args[1:], stdout, stderr)
		}
	}
	return runSum(args, stdin, stdout, stderr)
}

func usage(fs *flag.FlagSet, stderr io.Writer) func() {
	return func() {
		fmt.Fprintln(stderr, "Usage:")
		fmt.Fprintln(stderr, "  crcsum [flags] [file ...]          Print the CRC of each file (stdin when none)")
		fmt.Fprintln(stderr, "  crcsum snapshot [flags] <store> [prefix]")
		fmt.Fprintln(stderr, "                                     Checksum a store and commit a manifest")
		fmt.Fprintln(stderr, "  crcsum verify [flags] <store>      Verify a store against its latest manifest")
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "Stores: /path, file:///path, s3://bucket/prefix, minio://host:port/bucket/prefix")
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "Flags:")
		fs.PrintDefaults()
	}
}

func runSum(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("crcsum", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = usage(fs, stderr)

	algorithm := fs.String("a", crcgo.DefaultAlgorithm, "CRC algorithm name or alias")
	list := fs.Bool("list", false, "list the available algorithms")
	bits := fs.Int("bits", -1, "checksum only the first n bits of each input")
	check := fs.Bool("check", false, "verify every algorithm against its published check value")
	hex := fs.Bool("hex", false, "print checksums in hexadecimal")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	switch {
	case *list:
		printEngines(stdout)
		return 0
	case *check:
		return checkEngines(stdout)
	}

	engine, ok := crc.Lookup(*algorithm)
	if !ok {
		fmt.Fprintf(stderr, "crcsum: %v: %q\n", crcgo.ErrUnknownAlgorithm, *algorithm)
		return 2
	}

	files := fs.Args()
	if len(files) == 0 {
		files = []string{"-"}
	}

	status := 0
	for _, name := range files {
		sum, err := sumFile(engine, name, stdin, *bits)
		if err != nil {
			fmt.Fprintf(stderr, "crcsum: %s: %v\n", name, err)
			status = 1
			continue
		}
		fmt.Fprintf(stdout, "%s  %s\n", formatSum(engine, sum, *hex), name)
	}
	return status
}

func sumFile(engine crc.Engine, name string, stdin io.Reader, bits int) (uint64, error) {
	r := stdin
	if name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return 0, err
		}
		defer f.Close()
		r = f
	}

	if bits >= 0 {
		data, err := io.ReadAll(r)
		if err != nil {
			return 0, err
		}
		if bits > len(data)*8 {
			return 0, fmt.Errorf("input has %d bits, fewer than %d", len(data)*8, bits)
		}
		return engine.ChecksumBits(data, bits), nil
	}

	h := engine.New()
	if _, err := io.Copy(h, r); err != nil {
		return 0, err
	}
	return h.Sum64(), nil
}

func formatSum(engine crc.Engine, v uint64, hex bool) string {
	if hex {
		return fmt.Sprintf("%0*x", (engine.Width()+3)/4, v)
	}
	return fmt.Sprintf("%d", v)
}

func printEngines(stdout io.Writer) {
	w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tWIDTH\tCHECK")
	for _, e := range crc.Engines() {
		fmt.Fprintf(w, "%s\t%d\t%s\n", e.Name(), e.Width(), formatSum(e, e.Check(), true))
	}
	w.Flush()
}

func checkEngines(stdout io.Writer) int {
	status := 0
	check := []byte(crc.CheckString)
	for _, e := range crc.Engines() {
		got := e.Checksum(check)
		if got != e.Check() {
			fmt.Fprintf(stdout, "FAIL  %s: got %s, want %s\n", e.Name(), formatSum(e, got, true), formatSum(e, e.Check(), true))
			status = 1
			continue
		}
		fmt.Fprintf(stdout, "ok    %s\n", e.Name())
	}
	return status
}

type serviceFlags struct {
	algorithm   string
	blockSize   int64
	concurrency int
	ioLimit     int64
	decompress  bool
	compression string
	codec       string
	ddbTable    string
	logLevel    string
}

func (f *serviceFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.algorithm, "a", crcgo.DefaultAlgorithm, "CRC algorithm name or alias")
	fs.Int64Var(&f.blockSize, "block-size", crcgo.DefaultBlockSize, "per-block checksum size in bytes, 0 to disable")
	fs.IntVar(&f.concurrency, "concurrency", 4, "blobs checksummed in parallel")
	fs.Int64Var(&f.ioLimit, "io-limit", 0, "read limit in bytes per second, 0 for unlimited")
	fs.BoolVar(&f.decompress, "decompress", false, "checksum .zst, .lz4 and .gz blobs over their decoded content")
	fs.StringVar(&f.compression, "compress", "zstd", "manifest compression: none, lz4 or zstd")
	fs.StringVar(&f.codec, "codec", "json", "manifest export codec: "+strings.Join(codec.Names(), " or "))
	fs.StringVar(&f.ddbTable, "ddb-table", "", "DynamoDB table for s3 commits")
	fs.StringVar(&f.logLevel, "log-level", "warn", "log level: debug, info, warn or error")
}

func (f *serviceFlags) options() ([]crcgo.Option, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(f.logLevel)); err != nil {
		return nil, err
	}
	c, ok := codec.ByName(f.codec)
	if !ok {
		return nil, fmt.Errorf("unknown codec %q", f.codec)
	}
	return []crcgo.Option{
		crcgo.WithAlgorithm(f.algorithm),
		crcgo.WithBlockSize(f.blockSize),
		crcgo.WithConcurrency(f.concurrency),
		crcgo.WithIOLimit(f.ioLimit),
		crcgo.WithDecompress(f.decompress),
		crcgo.WithManifestCompression(f.compression),
		crcgo.WithCodec(c),
		crcgo.WithLogLevel(level),
	}, nil
}

func (f *serviceFlags) service(ctx context.Context, url string) (*crcgo.Service, error) {
	store, err := openStore(ctx, url, f.ddbTable)
	if err != nil {
		return nil, err
	}
	opts, err := f.options()
	if err != nil {
		return nil, err
	}
	return crcgo.New(store, opts...)
}

func runSnapshot(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("crcsum snapshot", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = usage(fs, stderr)

	var sf serviceFlags
	sf.register(fs)
	jsonOut := fs.Bool("json", false, "print the committed manifest as JSON")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() < 1 || fs.NArg() > 2 {
		fs.Usage()
		return 2
	}

	svc, err := sf.service(ctx, fs.Arg(0))
	if err != nil {
		fmt.Fprintf(stderr, "crcsum: %v\n", err)
		return 1
	}

	m, err := svc.Snapshot(ctx, fs.Arg(1))
	if err != nil {
		fmt.Fprintf(stderr, "crcsum: snapshot: %v\n", err)
		return 1
	}
	if err := svc.Commit(ctx, m); err != nil {
		fmt.Fprintf(stderr, "crcsum: commit: %v\n", err)
		return 1
	}

	if *jsonOut {
		data, err := svc.Export(m)
		if err != nil {
			fmt.Fprintf(stderr, "crcsum: %v\n", err)
			return 1
		}
		fmt.Fprintln(stdout, string(data))
		return 0
	}
	fmt.Fprintf(stdout, "manifest %d: %d entries, %d bytes, %s\n", m.ID, len(m.Entries), m.TotalSize(), m.Algorithm)
	return 0
}

func runVerify(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("crcsum verify", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = usage(fs, stderr)

	var sf serviceFlags
	sf.register(fs)
	version := fs.Uint64("version", 0, "manifest version to verify, 0 for the latest")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}

	svc, err := sf.service(ctx, fs.Arg(0))
	if err != nil {
		fmt.Fprintf(stderr, "crcsum: %v\n", err)
		return 1
	}

	var report *crcgo.Report
	if *version == 0 {
		report, err = svc.VerifyLatest(ctx)
	} else {
		m, lerr := svc.Manifest(ctx, *version)
		if lerr != nil {
			err = lerr
		} else {
			report, err = svc.Verify(ctx, m)
		}
	}
	if err != nil {
		if errors.Is(err, crcgo.ErrNotFound) {
			fmt.Fprintln(stderr, "crcsum: no manifest committed")
			return 1
		}
		fmt.Fprintf(stderr, "crcsum: verify: %v\n", err)
		return 1
	}

	for _, m := range report.Mismatches {
		fmt.Fprintf(stdout, "CORRUPT  %s", m.Name)
		if bm, ok := report.CorruptBlocks[m.Name]; ok {
			fmt.Fprintf(stdout, "  blocks %v", bm.ToArray())
		}
		fmt.Fprintln(stdout)
	}
	for _, name := range report.Missing {
		fmt.Fprintf(stdout, "MISSING  %s\n", name)
	}
	fmt.Fprintf(stdout, "manifest %d: %d checked, %d corrupt, %d missing\n",
		report.ManifestID, report.Checked, len(report.Mismatches), len(report.Missing))
	if !report.OK() {
		return 1
	}
	return 0
}
