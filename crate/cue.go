package crate

import (
	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/cottand/variance/frontend/ir"
	"github.com/pkg/errors"
)

func cuePos(v cue.Value) ir.Pos {
	pos := v.Pos()
	if !pos.IsValid() {
		return ir.Pos{}
	}
	return ir.Pos{Filename: pos.Filename(), Line: pos.Line(), Column: pos.Column()}
}

// decodeCUE evaluates a crate written in CUE, which allows descriptions to be
// generated with comprehensions and to share definitions between items
func decodeCUE(data []byte, filename string) (crateDesc, error) {
	var desc crateDesc
	v := cuecontext.New().CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return desc, errors.Wrap(err, "compile CUE")
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return desc, errors.Wrap(err, "evaluate CUE")
	}

	if name := v.LookupPath(cue.ParsePath("crate")); name.Exists() {
		s, err := name.String()
		if err != nil {
			return desc, errors.Wrap(err, "crate name")
		}
		desc.Crate = s
	}

	items, err := v.LookupPath(cue.ParsePath("items")).List()
	if err != nil {
		return desc, errors.Wrap(err, "items")
	}
	for items.Next() {
		value := items.Value()
		var item itemDesc
		if err := value.Decode(&item); err != nil {
			return desc, errors.Wrapf(err, "item at %s", cuePos(value))
		}
		item.pos = cuePos(value)
		if err := cueFieldPositions(value.LookupPath(cue.ParsePath("fields")), item.Fields); err != nil {
			return desc, err
		}
		variants, _ := value.LookupPath(cue.ParsePath("variants")).List()
		for i := 0; variants.Next() && i < len(item.Variants); i++ {
			variant := variants.Value()
			item.Variants[i].pos = cuePos(variant)
			if err := cueFieldPositions(variant.LookupPath(cue.ParsePath("fields")), item.Variants[i].Fields); err != nil {
				return desc, err
			}
		}
		desc.Items = append(desc.Items, item)
	}
	return desc, nil
}

func cueFieldPositions(v cue.Value, fields []fieldDesc) error {
	if !v.Exists() {
		return nil
	}
	list, err := v.List()
	if err != nil {
		return errors.Wrapf(err, "fields at %s", cuePos(v))
	}
	for i := 0; list.Next() && i < len(fields); i++ {
		fields[i].pos = cuePos(list.Value())
	}
	return nil
}
