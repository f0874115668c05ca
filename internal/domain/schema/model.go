package schema

// FieldType enumerates source field input types we care about.
const (
	TypeText     = "text"
	TypeCheckbox = "checkbox"
)

// Field describes a single field in a source project's data dictionary.
type Field struct {
	Name           string `json:"name"`
	Label          string `json:"label"`
	Form           string `json:"form"`
	Type           string `json:"type"`
	ValidationType string `json:"validation_type,omitempty"`
	Choices        string `json:"choices,omitempty"`
	Note           string `json:"note,omitempty"`
}

// EventForm designates a form to an event. Designation order is significant:
// it drives the deterministic event scan order during extraction.
type EventForm struct {
	Event string `json:"event"`
	Form  string `json:"form"`
}

// Project is a read-only snapshot of a source project's schema for the
// duration of one request.
type Project struct {
	ID           int64       `json:"id"`
	Title        string      `json:"title"`
	PrimaryKey   string      `json:"primary_key"`
	SecondaryKey string      `json:"secondary_key,omitempty"`
	Fields       []Field     `json:"fields"`
	EventForms   []EventForm `json:"event_forms"`
	// RepeatingForms marks repeating designations. An entry with an empty
	// Form means the whole event repeats.
	RepeatingForms []EventForm `json:"repeating_forms,omitempty"`
}

// FieldByName returns the field descriptor for name.
func (p *Project) FieldByName(name string) (Field, bool) {
	for _, f := range p.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// HasField reports whether the project's data dictionary contains name.
func (p *Project) HasField(name string) bool {
	_, ok := p.FieldByName(name)
	return ok
}

// FormFields returns the fields of a form in schema-declared order.
func (p *Project) FormFields(form string) []Field {
	var fields []Field
	for _, f := range p.Fields {
		if f.Form == form {
			fields = append(fields, f)
		}
	}
	return fields
}

// IsRepeating reports whether the form repeats within the event, or the
// event itself repeats.
func (p *Project) IsRepeating(event, form string) bool {
	for _, rf := range p.RepeatingForms {
		if rf.Event == event && (rf.Form == "" || rf.Form == form) {
			return true
		}
	}
	return false
}

// LookupField returns the subject-lookup field: the secondary identifier when
// requested and configured, otherwise the primary identifier.
func (p *Project) LookupField(useSecondary bool) string {
	if useSecondary && p.SecondaryKey != "" {
		return p.SecondaryKey
	}
	return p.PrimaryKey
}
