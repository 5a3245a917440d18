// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"

	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/graft/lib/codec"
)

// Output formats accepted by --format.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatCBOR = "cbor"
)

// OutputFormat is an embeddable struct that adds a --format flag to a
// command's parameter struct.
//
//	type rootParams struct {
//	    cli.OutputFormat
//	    DryRun bool `flag:"dry-run,n" desc:"print the plan and exit"`
//	}
//
//	// In Run:
//	if done, err := params.Emit(os.Stdout, plan); done {
//	    return err
//	}
//	// ... text formatting ...
type OutputFormat struct {
	Format string `flag:"format" desc:"output format: text, json, yaml, or cbor" default:"text"`
}

// Validate rejects unknown formats.
func (o *OutputFormat) Validate() error {
	switch o.Format {
	case "", FormatText, FormatJSON, FormatYAML, FormatCBOR:
		return nil
	default:
		return fmt.Errorf("unknown --format %q (want text, json, yaml, or cbor)", o.Format)
	}
}

// Emit writes result to w in the selected structured format. Returns
// (true, nil) on success, (true, err) on failure, or (false, nil) for
// text output, where the caller formats the result itself.
//
// Nil slices are normalized to empty slices before serialization.
func (o *OutputFormat) Emit(w io.Writer, result any) (bool, error) {
	switch o.Format {
	case "", FormatText:
		return false, nil
	case FormatJSON:
		return true, WriteJSON(w, normalizeNilSlice(result))
	case FormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(normalizeNilSlice(result)); err != nil {
			return true, fmt.Errorf("encoding YAML: %w", err)
		}
		return true, encoder.Close()
	case FormatCBOR:
		if file, ok := w.(*os.File); ok && IsTerminal(file) {
			return true, writeCBORDiagnostic(w, result)
		}
		if err := codec.NewEncoder(w).Encode(result); err != nil {
			return true, fmt.Errorf("encoding CBOR: %w", err)
		}
		return true, nil
	default:
		return true, o.Validate()
	}
}

// writeCBORDiagnostic writes result in CBOR diagnostic notation, for
// terminals that would otherwise receive raw binary.
func writeCBORDiagnostic(w io.Writer, result any) error {
	data, err := codec.Marshal(result)
	if err != nil {
		return fmt.Errorf("encoding CBOR: %w", err)
	}
	notation, err := codec.Diagnose(data)
	if err != nil {
		return fmt.Errorf("formatting CBOR: %w", err)
	}
	_, err = fmt.Fprintln(w, notation)
	return err
}

// WriteJSON marshals value as indented JSON and writes it to w.
func WriteJSON(w io.Writer, value any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

// normalizeNilSlice returns an empty slice of the same type if value
// is a nil slice, so that serialization produces [] instead of null.
func normalizeNilSlice(value any) any {
	v := reflect.ValueOf(value)
	if v.Kind() == reflect.Slice && v.IsNil() {
		return reflect.MakeSlice(v.Type(), 0, 0).Interface()
	}
	return value
}
