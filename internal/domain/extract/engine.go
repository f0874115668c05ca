// Package extract resolves requested fields against a subject's event-keyed
// data, applying first-non-blank and timestamp-range policies.
package extract

import "strings"

// stampLength is the length of a full "YYYY-MM-DD HH:MM:SS" timestamp.
const stampLength = 19

// Time-component pads for normalizing date-only values to full timestamps.
const (
	PadDayStart = "00:00:00"
	PadDayEnd   = "23:59:59"
)

// NormalizeStamp pads a timestamp missing a time component with timePad and
// truncates overlong values to exactly 19 characters, so that lexical
// comparison matches chronological order.
func NormalizeStamp(stamp, timePad string) string {
	stamp = strings.TrimSpace(stamp)
	if len(stamp) >= stampLength {
		return stamp[:stampLength]
	}
	pad := " " + timePad
	need := stampLength - len(stamp)
	if need >= len(pad) {
		return stamp + pad
	}
	return stamp + pad[len(pad)-need:]
}

// SingleValue returns the first non-blank occurrence of field, scanning each
// record's events in stored order. A checkbox occurrence yields one entry per
// checked option, all from that same occurrence. When no event holds a value,
// the scan falls back to repeating-instance data in stored order.
func SingleValue(records []SubjectRecord, field string) []Entry {
	result := []Entry{}
	for i := range records {
		for _, ev := range records[i].Events {
			v, ok := ev.Values[field]
			if !ok || v.Blank() {
				continue
			}
			result = append(result, valueEntries(field, v)...)
			break
		}
	}

	if len(result) == 0 {
		for i := range records {
			for _, inst := range records[i].Repeats {
				v, ok := inst.Values[field]
				if !ok || v.Blank() {
					continue
				}
				result = append(result, valueEntries(field, v)...)
				break
			}
		}
	}
	return result
}

// RangeValue returns every event occurrence where both field and its form's
// timestamp field are non-blank and the normalized timestamp falls within
// [minStamp, maxStamp] inclusive. Unlike SingleValue this can yield multiple
// entries. When no event matches, the same comparison runs over the
// repeating-instance data of the record iterated last; requests carry exactly
// one subject id, so that is the only record scanned.
func RangeValue(records []SubjectRecord, field, stampField, minStamp, maxStamp string) []Entry {
	min := NormalizeStamp(minStamp, PadDayStart)
	max := NormalizeStamp(maxStamp, PadDayEnd)

	result := []Entry{}
	last := -1
	for i := range records {
		last = i
		for _, ev := range records[i].Events {
			if e, ok := rangeEntry(ev.Values, field, stampField, min, max); ok {
				result = append(result, e)
			}
		}
	}

	if len(result) == 0 && last >= 0 {
		for _, inst := range records[last].Repeats {
			if e, ok := rangeEntry(inst.Values, field, stampField, min, max); ok {
				result = append(result, e)
			}
		}
	}
	return result
}

func rangeEntry(values map[string]Value, field, stampField, min, max string) (Entry, bool) {
	sv, ok := values[stampField]
	if !ok || sv.Blank() {
		return Entry{}, false
	}
	fv, ok := values[field]
	if !ok || fv.Blank() {
		return Entry{}, false
	}
	stamp := NormalizeStamp(sv.String(), PadDayStart)
	if stamp < min || stamp > max {
		return Entry{}, false
	}
	return Entry{Field: field, Value: fv.String(), Timestamp: sv.String()}, true
}

func valueEntries(field string, v Value) []Entry {
	if !v.IsCheckbox() {
		return []Entry{{Field: field, Value: v.String()}}
	}
	var entries []Entry
	for _, opt := range v.CheckedOptions() {
		entries = append(entries, Entry{Field: field, Value: opt})
	}
	return entries
}
