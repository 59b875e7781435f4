package skeleton

import (
	"encoding/json"
	"strconv"

	"github.com/pkg/errors"

	"badc0de.net/pkg/spine-split/pack"
)

// Rewrite binds the document's attachments to a freshly packed atlas.
//
// Every attachment that references a region must find it in the layout;
// a missing region is an UnresolvedReferenceError, since it means the
// extraction or packing step skipped something the skeleton needs.
// Attachment size fields are recomputed from the layout (the packed canvas
// carries the region's original, untrimmed size) rather than copied, so no
// stale cached geometry survives. The skeleton header's image folder
// reference is pointed at the private atlas directory.
//
// The input document is not modified; a new document is returned.
func Rewrite(d *Document, layout *pack.Layout, atlasBase string) (*Document, error) {
	root, err := d.root.Clone()
	if err != nil {
		return nil, err
	}
	out := &Document{root: root}

	rawSkins, ok := root.Get("skins")
	if !ok {
		return out, nil
	}

	rewriteSkin := func(skin string, slots *Obj) error {
		for _, slot := range slots.Keys() {
			atts, ok := slots.GetObj(slot)
			if !ok {
				return errors.Errorf("skin %q slot %q is not an object", skin, slot)
			}
			changed := false
			for _, name := range atts.Keys() {
				att, ok := atts.GetObj(name)
				if !ok {
					return errors.Errorf("attachment %q in slot %q is not an object", name, slot)
				}
				a := &attachment{Skin: skin, Slot: slot, Name: name, Obj: att}
				ref := a.regionRef()
				if ref == "" {
					continue
				}
				pl := layout.Lookup(ref)
				if pl == nil {
					return &UnresolvedReferenceError{Skin: skin, Slot: slot, Attachment: name, Region: ref}
				}
				att.Set("width", num(pl.Orig.X))
				att.Set("height", num(pl.Orig.Y))
				ab, err := json.Marshal(att)
				if err != nil {
					return errors.Wrapf(err, "re-encoding attachment %q", name)
				}
				atts.Set(name, ab)
				changed = true
			}
			if changed {
				sb, err := json.Marshal(atts)
				if err != nil {
					return errors.Wrapf(err, "re-encoding slot %q", slot)
				}
				slots.Set(slot, sb)
			}
		}
		return nil
	}

	if len(rawSkins) > 0 && rawSkins[0] == '[' {
		var skins []*Obj
		if err := json.Unmarshal(rawSkins, &skins); err != nil {
			return nil, errors.Wrap(err, "parsing skins array")
		}
		for _, sk := range skins {
			name, _ := sk.GetString("name")
			slots, ok := sk.GetObj("attachments")
			if !ok {
				continue
			}
			if err := rewriteSkin(name, slots); err != nil {
				return nil, err
			}
			sb, err := json.Marshal(slots)
			if err != nil {
				return nil, errors.Wrapf(err, "re-encoding skin %q", name)
			}
			sk.Set("attachments", sb)
		}
		b, err := json.Marshal(skins)
		if err != nil {
			return nil, errors.Wrap(err, "re-encoding skins array")
		}
		root.Set("skins", b)
	} else {
		skins := &Obj{}
		if err := json.Unmarshal(rawSkins, skins); err != nil {
			return nil, errors.Wrap(err, "parsing skins object")
		}
		for _, name := range skins.Keys() {
			slots, ok := skins.GetObj(name)
			if !ok {
				return nil, errors.Errorf("skin %q is not an object", name)
			}
			if err := rewriteSkin(name, slots); err != nil {
				return nil, err
			}
			sb, err := json.Marshal(slots)
			if err != nil {
				return nil, errors.Wrapf(err, "re-encoding skin %q", name)
			}
			skins.Set(name, sb)
		}
		b, err := json.Marshal(skins)
		if err != nil {
			return nil, errors.Wrap(err, "re-encoding skins object")
		}
		root.Set("skins", b)
	}

	// point the header at the animation-private atlas directory
	if hdr, ok := root.GetObj("skeleton"); ok {
		if _, had := hdr.Get("images"); had {
			hdr.Set("images", json.RawMessage(strconv.Quote("./"+atlasBase+"/")))
			hb, err := json.Marshal(hdr)
			if err != nil {
				return nil, errors.Wrap(err, "re-encoding skeleton header")
			}
			root.Set("skeleton", hb)
		}
	}

	return out, nil
}

func num(v int) json.RawMessage {
	return json.RawMessage(strconv.Itoa(v))
}
