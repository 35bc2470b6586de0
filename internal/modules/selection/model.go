// README: Selection model: committed trip fields (ordered) and per-panel transient state.
package selection

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"
)

const (
	FieldDates           = "Dates"
	FieldLocation        = "Location"
	FieldBudget          = "Budget"
	FieldTravelers       = "Travelers"
	FieldActivities      = "Activities"
	FieldMealPreferences = "Meal Preferences"
)

// ActivityCatalog fixes the display and join order of selectable activities.
var ActivityCatalog = []string{
	"Sightseeing",
	"Museums",
	"Hiking",
	"Beach",
	"Shopping",
	"Nightlife",
	"Local Cuisine",
}

var (
	ErrUnknownActivity  = errors.New("unknown activity")
	ErrUnknownField     = errors.New("field is not a free-text field")
	ErrInvalidDateRange = errors.New("end date is before start date")
)

type Entry struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// Set is an insertion-ordered field -> value mapping. Re-setting a key keeps its position.
// The zero value is ready to use.
type Set struct {
	keys   []string
	values map[string]string
}

func NewSet(entries ...Entry) *Set {
	s := &Set{}
	for _, e := range entries {
		s.Put(e.Field, e.Value)
	}
	return s
}

func (s *Set) Put(field, value string) {
	if s.values == nil {
		s.values = make(map[string]string)
	}
	if _, ok := s.values[field]; !ok {
		s.keys = append(s.keys, field)
	}
	s.values[field] = value
}

func (s *Set) Get(field string) (string, bool) {
	v, ok := s.values[field]
	return v, ok
}

func (s *Set) Delete(field string) {
	if _, ok := s.values[field]; !ok {
		return
	}
	delete(s.values, field)
	for i, k := range s.keys {
		if k == field {
			s.keys = append(s.keys[:i], s.keys[i+1:]...)
			break
		}
	}
}

func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.keys)
}

func (s *Set) Entries() []Entry {
	if s == nil {
		return nil
	}
	out := make([]Entry, 0, len(s.keys))
	for _, k := range s.keys {
		out = append(out, Entry{Field: k, Value: s.values[k]})
	}
	return out
}

// Lines renders each entry as "field: value" in insertion order.
func (s *Set) Lines() []string {
	entries := s.Entries()
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Field+": "+e.Value)
	}
	return out
}

func (s *Set) Clone() *Set {
	c := &Set{}
	for _, e := range s.Entries() {
		c.Put(e.Field, e.Value)
	}
	return c
}

// MarshalJSON writes a JSON object whose member order matches insertion order.
func (s *Set) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range s.Entries() {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(e.Field)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(e.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// DateRange is meaningful only when both ends are set.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

func (r DateRange) Complete() bool {
	return r.Start != nil && r.End != nil
}

// Transient is per-panel working state that is not itself part of the Set.
type Transient struct {
	Dates           DateRange
	Activities      map[string]struct{}
	Travelers       int
	Location        string
	Budget          string
	MealPreferences string
}

func NewTransient() Transient {
	return Transient{
		Activities: make(map[string]struct{}),
		Travelers:  1,
	}
}

func (t Transient) clone() Transient {
	c := t
	c.Activities = make(map[string]struct{}, len(t.Activities))
	for a := range t.Activities {
		c.Activities[a] = struct{}{}
	}
	return c
}

// Patch is a single derived change to apply to a Set.
type Patch struct {
	Field  string
	Value  string
	Remove bool
}

func (p Patch) apply(s *Set) {
	if p.Remove {
		s.Delete(p.Field)
		return
	}
	s.Put(p.Field, p.Value)
}
