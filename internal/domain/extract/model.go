package extract

// Event holds one event's field values for a subject.
type Event struct {
	Name   string
	Values map[string]Value
}

// RepeatInstance holds one repeating-form or repeating-event instance.
type RepeatInstance struct {
	Event    string
	Form     string
	Instance int
	Values   map[string]Value
}

// SubjectRecord is one subject's data: events in stable stored order, plus
// repeating instances in stored order.
type SubjectRecord struct {
	ID      string
	Events  []Event
	Repeats []RepeatInstance
}

// FieldRequest asks for one field, optionally constrained to an inclusive
// timestamp range when the field lives on a temporal form. Range mode is
// selected by the presence of TimestampMin.
type FieldRequest struct {
	Field        string  `json:"field"`
	TimestampMin *string `json:"timestamp_min,omitempty"`
	TimestampMax *string `json:"timestamp_max,omitempty"`
}

// Ranged reports whether the request asks for range-matched extraction.
func (r FieldRequest) Ranged() bool {
	return r.TimestampMin != nil
}

// Entry is one extracted field value. Timestamp is set only for
// range-matched results.
type Entry struct {
	Field     string `json:"field"`
	Value     string `json:"value"`
	Timestamp string `json:"timestamp,omitempty"`
}
