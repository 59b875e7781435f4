package skeleton

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
)

// Obj is a JSON object that remembers its key order. Spine's exporter writes
// sections and attachments in a meaningful order, and the rewriter must not
// shuffle a document it only partially touched.
type Obj struct {
	keys []string
	vals map[string]json.RawMessage
}

func (o *Obj) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errors.Errorf("expected JSON object, got %v", tok)
	}
	o.keys = nil
	o.vals = make(map[string]json.RawMessage)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key := tok.(string)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		if _, dup := o.vals[key]; !dup {
			o.keys = append(o.keys, key)
		}
		o.vals[key] = raw
	}
	_, err = dec.Token() // closing brace
	return err
}

func (o *Obj) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(o.vals[k])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Get returns the raw value for key.
func (o *Obj) Get(key string) (json.RawMessage, bool) {
	v, ok := o.vals[key]
	return v, ok
}

// Set replaces the value for key, appending the key when new.
func (o *Obj) Set(key string, v json.RawMessage) {
	if o.vals == nil {
		o.vals = make(map[string]json.RawMessage)
	}
	if _, ok := o.vals[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.vals[key] = v
}

// Keys returns the keys in document order.
func (o *Obj) Keys() []string {
	return append([]string(nil), o.keys...)
}

// GetString returns the value for key when it is a JSON string.
func (o *Obj) GetString(key string) (string, bool) {
	raw, ok := o.vals[key]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// GetObj returns the value for key decoded as a nested object.
func (o *Obj) GetObj(key string) (*Obj, bool) {
	raw, ok := o.vals[key]
	if !ok {
		return nil, false
	}
	nested := &Obj{}
	if err := json.Unmarshal(raw, nested); err != nil {
		return nil, false
	}
	return nested, true
}

// Clone deep-copies the object via its raw bytes.
func (o *Obj) Clone() (*Obj, error) {
	b, err := json.Marshal(o)
	if err != nil {
		return nil, errors.Wrap(err, "cloning JSON object")
	}
	c := &Obj{}
	if err := json.Unmarshal(b, c); err != nil {
		return nil, errors.Wrap(err, "cloning JSON object")
	}
	return c, nil
}
