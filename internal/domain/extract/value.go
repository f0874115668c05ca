package extract

import "sort"

type valueKind int

const (
	kindScalar valueKind = iota
	kindCheckbox
)

// Value is a stored field value: either a plain scalar or a multi-select
// (checkbox) mapping of option code to checked state.
type Value struct {
	kind    valueKind
	scalar  string
	options map[string]bool
}

// Scalar wraps a plain string value.
func Scalar(s string) Value {
	return Value{kind: kindScalar, scalar: s}
}

// Checkbox wraps a multi-select value.
func Checkbox(options map[string]bool) Value {
	return Value{kind: kindCheckbox, options: options}
}

// SetOption returns a checkbox value with the option state applied, turning
// a zero Value into a checkbox. Used by stores assembling values from
// per-option rows.
func (v Value) SetOption(option string, checked bool) Value {
	options := make(map[string]bool, len(v.options)+1)
	for k, b := range v.options {
		options[k] = b
	}
	options[option] = checked
	return Value{kind: kindCheckbox, options: options}
}

// IsCheckbox reports whether the value is a multi-select.
func (v Value) IsCheckbox() bool {
	return v.kind == kindCheckbox
}

// Blank reports whether the value counts as blank for first-non-blank scans.
// A checkbox value is never blank: even with nothing checked it marks an
// occurrence of the field.
func (v Value) Blank() bool {
	return v.kind == kindScalar && v.scalar == ""
}

// String returns the scalar value; "" for a checkbox.
func (v Value) String() string {
	return v.scalar
}

// CheckedOptions returns the checked option codes in sorted order.
func (v Value) CheckedOptions() []string {
	var checked []string
	for opt, on := range v.options {
		if on {
			checked = append(checked, opt)
		}
	}
	sort.Strings(checked)
	return checked
}
