// Package crate loads crate descriptions written in YAML or CUE into an ir.Crate
package crate

import (
	"io/fs"
	"path"
	"strings"
	"testing/fstest"

	"github.com/cottand/variance/frontend/ilerr"
	"github.com/cottand/variance/frontend/ir"
	"github.com/cottand/variance/internal/log"
	"github.com/pkg/errors"
)

var logger = log.DefaultLogger.With("section", "crate")

// LoadCrate reads the description at name inside fsys, which must be a .yaml, .yml or .cue file.
//
// The returned error is only set when the description could not be read or decoded at all.
// Problems with the items themselves are collected in the returned *ilerr.Errors, and the
// crate still contains every item that could be built
func LoadCrate(fsys fs.FS, name string) (*ir.Crate, *ilerr.Errors, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "read crate %s", name)
	}

	var desc crateDesc
	switch ext := path.Ext(name); ext {
	case ".yaml", ".yml":
		desc, err = decodeYAML(data)
		desc.withFilename(name)
	case ".cue":
		desc, err = decodeCUE(data, name)
	default:
		return nil, nil, errors.Errorf("unsupported crate description format '%s' of %s", ext, name)
	}
	if err != nil {
		return nil, nil, errors.Wrapf(err, "decode crate %s", name)
	}
	if desc.Crate == "" {
		desc.Crate = strings.TrimSuffix(path.Base(name), path.Ext(name))
	}
	logger.Debug("loading crate", "file", name, "items", len(desc.Items))

	crate, errs := build(desc)
	return crate, errs, nil
}

// NewCrateFromBytes loads a description held in memory, where filename only decides the format
func NewCrateFromBytes(data []byte, filename string) (*ir.Crate, *ilerr.Errors, error) {
	filesystem := fstest.MapFS{
		filename: &fstest.MapFile{
			Data: data,
		},
	}
	return LoadCrate(filesystem, filename)
}
