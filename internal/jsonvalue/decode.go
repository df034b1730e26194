package jsonvalue

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"strconv"

	"github.com/obegron/ipscope/internal/errors"
)

// MaxDepth bounds container nesting accepted by the decoders and walked by
// the renderer.
const MaxDepth = 512

// Parse decodes a single JSON document, keeping object key order.
func Parse(data []byte) (Value, error) {
	return Decode(bytes.NewReader(data))
}

// Decode reads exactly one JSON document from r.
func Decode(r io.Reader) (Value, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	tok, err := dec.Token()
	if err == io.EOF {
		return Value{}, errors.ErrEmptyInput
	}
	if err != nil {
		return Value{}, fmt.Errorf("%w: %v", errors.ErrInvalidJSON, err)
	}

	v, err := decodeToken(dec, tok, 0)
	if err != nil {
		return Value{}, err
	}

	if _, err := dec.Token(); err != io.EOF {
		return Value{}, fmt.Errorf("%w: unexpected data after top-level value", errors.ErrInvalidJSON)
	}
	return v, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func decodeNext(dec *json.Decoder, depth int) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return Value{}, fmt.Errorf("%w: %v", errors.ErrInvalidJSON, err)
	}
	return decodeToken(dec, tok, depth)
}

func decodeToken(dec *json.Decoder, tok json.Token, depth int) (Value, error) {
	switch t := tok.(type) {
	case nil:
		return NewNull(), nil
	case bool:
		return NewBool(t), nil
	case string:
		return NewString(t), nil
	case json.Number:
		f, err := strconv.ParseFloat(string(t), 64)
		if err != nil && !stderrors.Is(err, strconv.ErrRange) {
			return Value{}, fmt.Errorf("%w: bad number %q", errors.ErrInvalidJSON, t)
		}
		return NewNumber(f), nil
	case json.Delim:
		if depth >= MaxDepth {
			return Value{}, fmt.Errorf("%w: more than %d levels", errors.ErrTooDeep, MaxDepth)
		}
		switch t {
		case '[':
			return decodeArray(dec, depth)
		case '{':
			return decodeObject(dec, depth)
		}
	}
	return Value{}, fmt.Errorf("%w: unexpected token %v", errors.ErrInvalidJSON, tok)
}

func decodeArray(dec *json.Decoder, depth int) (Value, error) {
	items := []Value{}
	for dec.More() {
		item, err := decodeNext(dec, depth+1)
		if err != nil {
			return Value{}, err
		}
		items = append(items, item)
	}
	if _, err := dec.Token(); err != nil {
		return Value{}, fmt.Errorf("%w: %v", errors.ErrInvalidJSON, err)
	}
	return Value{kind: Array, items: items}, nil
}

func decodeObject(dec *json.Decoder, depth int) (Value, error) {
	members := []Member{}
	index := map[string]int{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return Value{}, fmt.Errorf("%w: %v", errors.ErrInvalidJSON, err)
		}
		key, ok := tok.(string)
		if !ok {
			return Value{}, fmt.Errorf("%w: object key %v is not a string", errors.ErrInvalidJSON, tok)
		}
		val, err := decodeNext(dec, depth+1)
		if err != nil {
			return Value{}, err
		}
		if i, dup := index[key]; dup {
			members[i].Value = val
			continue
		}
		index[key] = len(members)
		members = append(members, Member{Key: key, Value: val})
	}
	if _, err := dec.Token(); err != nil {
		return Value{}, fmt.Errorf("%w: %v", errors.ErrInvalidJSON, err)
	}
	return Value{kind: Object, members: members}, nil
}
