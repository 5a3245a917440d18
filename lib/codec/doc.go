// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides graft's CBOR encoding configuration, used for
// "graft --dry-run --format=cbor" so wrapper tools can consume the
// resolved plan without parsing text.
//
// The encoder uses Core Deterministic Encoding (RFC 8949 §4.2): sorted
// map keys, smallest integer encoding, no indefinite-length items. The
// same plan always produces identical bytes.
//
//	data, err := codec.Marshal(plan)
//	err = codec.NewEncoder(os.Stdout).Encode(plan)
//
// Types carry `json` tags only; fxamacker/cbor v2 reads them as a
// fallback when `cbor` tags are absent, so one tag controls field
// naming for JSON, YAML (alongside the `yaml` tag), and CBOR. Never
// add a `cbor` tag next to a `json` tag.
//
// [Diagnose] renders encoded bytes in diagnostic notation, which is
// what a terminal gets instead of raw binary.
package codec
