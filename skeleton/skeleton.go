// Package skeleton reads Spine JSON skeleton documents, lists the atlas
// regions their attachments reference, and rewrites those references against
// a freshly packed atlas.
//
// Only the parts that bind attachments to atlas regions are interpreted;
// everything else (bones, animations, events, ...) is carried through as raw
// JSON, bytes and order intact.
package skeleton

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// Document is a parsed skeleton file.
type Document struct {
	root *Obj
}

// Decode parses a Spine JSON skeleton document.
func Decode(r io.Reader) (*Document, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading skeleton document")
	}
	root := &Obj{}
	if err := json.Unmarshal(b, root); err != nil {
		return nil, errors.Wrap(err, "parsing skeleton document")
	}
	return &Document{root: root}, nil
}

// Encode writes the document back out as JSON, preserving section order.
func (d *Document) Encode(w io.Writer) error {
	b, err := json.Marshal(d.root)
	if err != nil {
		return errors.Wrap(err, "encoding skeleton document")
	}
	_, err = w.Write(b)
	return errors.Wrap(err, "writing skeleton document")
}

// attachment is one attachment binding visited while walking the skins
// section.
type attachment struct {
	Skin string
	Slot string
	Name string // attachment key within the slot
	Obj  *Obj
}

// regionRef returns the atlas region the attachment references, or "" when
// the attachment type does not use one (bounding boxes, paths, points,
// clipping polygons).
func (a *attachment) regionRef() string {
	typ, _ := a.Obj.GetString("type")
	switch typ {
	case "", "region", "mesh", "linkedmesh", "skinnedmesh":
	default:
		return ""
	}
	if path, ok := a.Obj.GetString("path"); ok {
		return path
	}
	if name, ok := a.Obj.GetString("name"); ok {
		return name
	}
	return a.Name
}

// walkAttachments visits every attachment of every skin. The skins section
// comes in two shapes: a name→slots object (Spine 3.7 and older) or an array
// of {"name": ..., "attachments": slots} objects (3.8+). Both are handled.
func (d *Document) walkAttachments(visit func(a *attachment) error) error {
	raw, ok := d.root.Get("skins")
	if !ok {
		return nil
	}

	visitSkin := func(skin string, slots *Obj) error {
		for _, slot := range slots.Keys() {
			atts, ok := slots.GetObj(slot)
			if !ok {
				return errors.Errorf("skin %q slot %q is not an object", skin, slot)
			}
			for _, name := range atts.Keys() {
				att, ok := atts.GetObj(name)
				if !ok {
					return errors.Errorf("attachment %q in slot %q is not an object", name, slot)
				}
				if err := visit(&attachment{Skin: skin, Slot: slot, Name: name, Obj: att}); err != nil {
					return err
				}
			}
		}
		return nil
	}

	if len(raw) > 0 && raw[0] == '[' {
		var skins []*Obj
		if err := json.Unmarshal(raw, &skins); err != nil {
			return errors.Wrap(err, "parsing skins array")
		}
		for _, sk := range skins {
			name, _ := sk.GetString("name")
			slots, ok := sk.GetObj("attachments")
			if !ok {
				continue // a skin may carry no attachments
			}
			if err := visitSkin(name, slots); err != nil {
				return err
			}
		}
		return nil
	}

	skins := &Obj{}
	if err := json.Unmarshal(raw, skins); err != nil {
		return errors.Wrap(err, "parsing skins object")
	}
	for _, name := range skins.Keys() {
		slots, ok := skins.GetObj(name)
		if !ok {
			return errors.Errorf("skin %q is not an object", name)
		}
		if err := visitSkin(name, slots); err != nil {
			return err
		}
	}
	return nil
}

// References returns the atlas region keys referenced by the document's
// attachments, deduplicated, in first-seen order.
func (d *Document) References() ([]string, error) {
	var refs []string
	seen := map[string]bool{}
	err := d.walkAttachments(func(a *attachment) error {
		ref := a.regionRef()
		if ref == "" || seen[ref] {
			return nil
		}
		seen[ref] = true
		refs = append(refs, ref)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return refs, nil
}

// UnresolvedReferenceError reports an attachment referencing a region that
// was never extracted and packed. It is surfaced, never dropped: it means an
// upstream gap, not a cosmetic mismatch.
type UnresolvedReferenceError struct {
	Skin       string
	Slot       string
	Attachment string
	Region     string
}

func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("skeleton: attachment %q in slot %q (skin %q) references region %q, which is not in the packed atlas",
		e.Attachment, e.Slot, e.Skin, e.Region)
}
