package schema

// TemporalForms classifies each form that can hold multiple values per
// subject and picks the timestamp field that disambiguates them.
//
// A form is temporal when it is marked repeating (per event or per form), or
// when it is designated to two or more events. For each temporal form the
// first field in schema-declared order with a date/datetime validation type
// becomes its timestamp. A temporal form with no such field is left out of
// the result: values on it cannot be range-matched, so requests against its
// fields degrade to first-non-blank semantics.
func TemporalForms(p *Project) map[string]string {
	counts := make(map[string]int)
	seen := make(map[string]bool)
	var temporal []string

	for _, ef := range p.EventForms {
		counts[ef.Form]++
		if seen[ef.Form] {
			continue
		}
		if p.IsRepeating(ef.Event, ef.Form) || counts[ef.Form] >= 2 {
			seen[ef.Form] = true
			temporal = append(temporal, ef.Form)
		}
	}

	stamps := make(map[string]string)
	for _, form := range temporal {
		for _, f := range p.FormFields(form) {
			if IsDateTimeValidation(f.ValidationType) {
				stamps[form] = f.Name
				break
			}
		}
	}
	return stamps
}
