package handler

// Envelope is the uniform wire-response wrapper. Every response carries
// both sequences; exactly one of them is meaningfully populated. A list
// result travels as a single data element holding the whole list, so
// callers unwrap one level to reach individual records.
type Envelope struct {
	Data   []any    `json:"data"`
	Errors []string `json:"errors"`
}

// DataEnvelope builds a success envelope with the given payload items and
// an empty error sequence.
func DataEnvelope(items ...any) Envelope {
	if items == nil {
		items = []any{}
	}
	return Envelope{Data: items, Errors: []string{}}
}

// ErrorEnvelope builds a failure envelope with the given messages and an
// empty data sequence. Callers treat "no data" as the failure signal; the
// messages are diagnostic text, not codes.
func ErrorEnvelope(messages ...string) Envelope {
	if messages == nil {
		messages = []string{}
	}
	return Envelope{Data: []any{}, Errors: messages}
}
