package a11y

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var errTrailingData = errors.New("unexpected data after JSON value")

// decodeStrict unmarshals raw into v, rejecting unknown fields and trailing
// values.
func decodeStrict(raw []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return errTrailingData
	}
	return nil
}

func missingField(name string) error {
	return fmt.Errorf("missing field %q", name)
}
