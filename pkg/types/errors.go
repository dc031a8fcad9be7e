package types

import "errors"

// Schema-related errors
var (
	// ErrUnknownTag is returned when a tag is not a column of the schema
	ErrUnknownTag = errors.New("unknown tag")

	// ErrRecordLength is returned when a record does not match the schema width
	ErrRecordLength = errors.New("record length does not match schema")
)
