// Package bitvis is an in-memory, concurrent version store for fixed-size
// visibility bitmaps, indexed by commit sequence number (CSN).
//
// It is built for an HTAP database's per-row visibility bitmaps: each
// commit produces a new 7,500-byte snapshot, and readers running at an
// older CSN still need to see the snapshot as it stood at that point.
// Storing every snapshot whole would be wasteful, since adjacent CSNs
// usually differ by a handful of bits - bitvis instead groups up to nine
// consecutive versions under one reference image and stores each member
// as a diff against it.
//
// # Quick Start
//
//	store := bitvis.New(activeCSNs, bitvis.WithLogger(bitvis.NewJSONLogger(slog.LevelInfo)))
//
//	var img codec.Bitmap
//	// ... caller fills img with the CSN's visibility bitmap ...
//	h, err := store.InsertPlaceholder(csn, &img)
//	// phase 3 may run later, off the critical path:
//	err = store.InsertContent(ctx, h, &img)
//
//	got, ok := store.Get(csn)
//
// # Insert Protocol
//
// Insertion is split in two so a writer can reserve its CSN's position in
// the chain (InsertPlaceholder, cheap, under a brief lock) before paying
// for encoding and propagation (InsertContent, the expensive phase, no
// chain-wide lock held). Reads never take a lock at all: Get walks
// atomically-published pointers only.
//
// # Key Properties
//
//   - Reconstruction: decoding a materialized delta against its group's
//     reference always reproduces exactly the bitmap that was submitted
//     for that CSN.
//   - Monotonic visibility within a group: out-of-order materialization
//     of concurrently-inserted CSNs still reconstructs correctly, via a
//     propagation barrier at unmaterialized placeholders.
//   - Lock-free reads: a reader never blocks behind a writer, at the cost
//     of returning not-found for a CSN whose placeholder is reserved but
//     not yet materialized, even though it would eventually resolve.
package bitvis
