package sdp

import "fmt"

// FieldOutOfRangeError reports a packet field that violates its declared
// range. The range is half-open: [Min, Max).
type FieldOutOfRangeError struct {
	Field    string
	Value    int
	Min, Max int
}

func (e *FieldOutOfRangeError) Error() string {
	return fmt.Sprintf("sdp: field %s = %d outside range [%d, %d)",
		e.Field, e.Value, e.Min, e.Max)
}

// InvalidHeaderError reports a flags byte that is neither the
// reply-expected nor the no-reply marker.
type InvalidHeaderError struct {
	Flags byte
}

func (e *InvalidHeaderError) Error() string {
	return fmt.Sprintf("sdp: invalid header flags byte %#02x", e.Flags)
}

// PayloadTooShortError reports a payload that cannot hold the expected
// command header.
type PayloadTooShortError struct {
	Len, Need int
}

func (e *PayloadTooShortError) Error() string {
	return fmt.Sprintf("sdp: payload is %d bytes, need at least %d",
		e.Len, e.Need)
}

// TooManyFieldsError reports a byte-string field that exceeds its
// declared maximum length.
type TooManyFieldsError struct {
	Field string
	Len   int
	Max   int
}

func (e *TooManyFieldsError) Error() string {
	return fmt.Sprintf("sdp: field %s is %d bytes, maximum is %d",
		e.Field, e.Len, e.Max)
}
