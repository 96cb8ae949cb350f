package crcgo_test

import (
	"context"
	"fmt"

	"github.com/hupe1980/crcgo"
	"github.com/hupe1980/crcgo/blobstore"
)

func Example() {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	_ = store.Put(ctx, "greeting.txt", []byte("123456789"))

	svc, err := crcgo.New(store, crcgo.WithAlgorithm("CRC-32C"))
	if err != nil {
		panic(err)
	}

	m, err := svc.Snapshot(ctx, "")
	if err != nil {
		panic(err)
	}
	if err := svc.Commit(ctx, m); err != nil {
		panic(err)
	}

	report, err := svc.VerifyLatest(ctx)
	if err != nil {
		panic(err)
	}

	fmt.Printf("%s %08x %v\n", m.Entries[0].Name, m.Entries[0].Checksum, report.OK())
	// Output: greeting.txt e3069283 true
}
