package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"mime/multipart"
	"net/url"
	"slices"
	"strconv"
)

// Encoding selects how Values payloads are put on the wire.
type Encoding int

const (
	// EncodingForm sends Values as multipart/form-data, one field per key.
	EncodingForm Encoding = iota
	// EncodingJSON sends Values as an application/json object.
	EncodingJSON
)

func (e Encoding) String() string {
	if e == EncodingJSON {
		return "json"
	}
	return "form"
}

// ParseEncoding maps "form" or "json" to an Encoding.
func ParseEncoding(s string) (Encoding, error) {
	switch s {
	case "", "form":
		return EncodingForm, nil
	case "json":
		return EncodingJSON, nil
	}
	return 0, fmt.Errorf("unknown encoding %q: must be form or json", s)
}

const contentTypeJSON = "application/json"

// Payload is a request body. Values, *Form and JSON implement it.
type Payload interface {
	encode(enc Encoding) (body io.Reader, contentType string, err error)
}

// Values is structured key/value data. It is encoded per the client's
// Encoding: each key becomes one form field, or the map becomes one JSON object.
type Values map[string]any

func (v Values) encode(enc Encoding) (io.Reader, string, error) {
	if enc == EncodingJSON {
		return encodeJSON(map[string]any(v))
	}

	f := NewForm()
	for _, k := range slices.Sorted(maps.Keys(v)) {
		s, err := stringify(v[k])
		if err != nil {
			return nil, "", fmt.Errorf("field %q: %w", k, err)
		}
		f.Add(k, s)
	}
	return f.encode(enc)
}

// JSON sends Value as application/json regardless of the client's Encoding.
type JSON struct {
	Value any
}

func (j JSON) encode(Encoding) (io.Reader, string, error) {
	return encodeJSON(j.Value)
}

func encodeJSON(v any) (io.Reader, string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, "", err
	}
	return bytes.NewReader(b), contentTypeJSON, nil
}

// Form is a pre-built multipart form. It is sent unchanged, whatever the
// client's Encoding. A Form may be sent more than once but cannot be
// modified after its first send.
type Form struct {
	buf    bytes.Buffer
	w      *multipart.Writer
	fields []string
	closed bool
	err    error
}

// NewForm returns an empty multipart form.
func NewForm() *Form {
	f := &Form{}
	f.w = multipart.NewWriter(&f.buf)
	return f
}

// FormFromValues builds a Form holding every value of every key in vals,
// keys in sorted order.
func FormFromValues(vals url.Values) *Form {
	f := NewForm()
	for _, k := range slices.Sorted(maps.Keys(vals)) {
		for _, v := range vals[k] {
			f.Add(k, v)
		}
	}
	return f
}

// Add appends a text field.
func (f *Form) Add(key, value string) {
	if f.err != nil {
		return
	}
	if f.closed {
		f.err = fmt.Errorf("form already sent: cannot add %q", key)
		return
	}
	if err := f.w.WriteField(key, value); err != nil {
		f.err = err
		return
	}
	f.fields = append(f.fields, key)
}

// AddFile appends a file field read from r.
func (f *Form) AddFile(key, filename string, r io.Reader) error {
	if f.err != nil {
		return f.err
	}
	if f.closed {
		return fmt.Errorf("form already sent: cannot add %q", key)
	}
	part, err := f.w.CreateFormFile(key, filename)
	if err != nil {
		f.err = err
		return err
	}
	if _, err := io.Copy(part, r); err != nil {
		f.err = err
		return err
	}
	f.fields = append(f.fields, key)
	return nil
}

// Has reports whether a field named key was added.
func (f *Form) Has(key string) bool {
	return f != nil && slices.Contains(f.fields, key)
}

func (f *Form) encode(Encoding) (io.Reader, string, error) {
	if f == nil {
		return nil, "", nil
	}
	if f.err != nil {
		return nil, "", f.err
	}
	if !f.closed {
		if err := f.w.Close(); err != nil {
			return nil, "", err
		}
		f.closed = true
	}
	return bytes.NewReader(f.buf.Bytes()), f.w.FormDataContentType(), nil
}

// stringify renders a Values entry as a single form field value. Scalars use
// their plain text form; nil is "null"; composite values are sent as JSON.
func stringify(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "null", nil
	case string:
		return t, nil
	case []byte:
		return string(t), nil
	case bool:
		return strconv.FormatBool(t), nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(t), nil
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32), nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case fmt.Stringer:
		return t.String(), nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
