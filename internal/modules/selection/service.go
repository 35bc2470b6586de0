// README: Selection store: committed fields plus the panel writers that keep them in sync.
package selection

import (
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
)

// dateLayout matches the month/day/year rendering users see in the summary.
const dateLayout = "1/2/2006"

// Store is not safe for concurrent use; callers serialise access per workspace.
type Store struct {
	set       *Set
	transient Transient
}

func NewStore() *Store {
	return &Store{set: &Set{}, transient: NewTransient()}
}

// Set stores value under field. An empty value is kept as an entry.
func (s *Store) Set(field, value string) {
	s.set.Put(field, value)
}

func (s *Store) Unset(field string) {
	s.set.Delete(field)
}

// ReplaceAll swaps the whole Set. Transient state is left untouched.
func (s *Store) ReplaceAll(set *Set) {
	s.set = set.Clone()
}

func (s *Store) DisplayLines() []string {
	return s.set.Lines()
}

func (s *Store) RawText() string {
	return FormatRawText(s.set)
}

// ApplyRawText replaces the Set with the parsed contents of an edited summary.
func (s *Store) ApplyRawText(text string) {
	s.ReplaceAll(ParseRawText(text))
}

func (s *Store) Snapshot() *Set {
	return s.set.Clone()
}

func (s *Store) Entries() []Entry {
	return s.set.Entries()
}

func (s *Store) Transient() Transient {
	return s.transient.clone()
}

// SelectedActivities returns the chosen activities in catalog order.
func (t Transient) SelectedActivities() []string {
	return lo.Filter(ActivityCatalog, func(a string, _ int) bool {
		_, ok := t.Activities[a]
		return ok
	})
}

// DeriveSelectionField projects the activity set onto the Activities field.
func DeriveSelectionField(t Transient) Patch {
	selected := t.SelectedActivities()
	if len(selected) == 0 {
		return Patch{Field: FieldActivities, Remove: true}
	}
	return Patch{Field: FieldActivities, Value: strings.Join(selected, ", ")}
}

func (s *Store) syncDerived() {
	DeriveSelectionField(s.transient).apply(s.set)
}

// SetDates records the picked range and commits Dates once both ends are known.
func (s *Store) SetDates(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return ErrInvalidDateRange
	}
	s.transient.Dates = DateRange{Start: start, End: end}
	if s.transient.Dates.Complete() {
		s.Set(FieldDates, start.Format(dateLayout)+" - "+end.Format(dateLayout))
	}
	return nil
}

func (s *Store) ToggleActivity(name string) error {
	if !lo.Contains(ActivityCatalog, name) {
		return ErrUnknownActivity
	}
	if _, ok := s.transient.Activities[name]; ok {
		delete(s.transient.Activities, name)
	} else {
		s.transient.Activities[name] = struct{}{}
	}
	s.syncDerived()
	return nil
}

func (s *Store) IncrementTravelers() int {
	return s.changeTravelers(1)
}

func (s *Store) DecrementTravelers() int {
	return s.changeTravelers(-1)
}

func (s *Store) changeTravelers(step int) int {
	s.transient.Travelers = max(1, s.transient.Travelers+step)
	s.Set(FieldTravelers, strconv.Itoa(s.transient.Travelers))
	return s.transient.Travelers
}

func (s *Store) SetLocation(v string) {
	s.transient.Location = v
	s.Set(FieldLocation, v)
}

func (s *Store) SetBudget(v string) {
	s.transient.Budget = v
	s.Set(FieldBudget, v)
}

func (s *Store) SetMealPreferences(v string) {
	s.transient.MealPreferences = v
	s.Set(FieldMealPreferences, v)
}

// SetText dispatches to the writer of a free-text panel.
func (s *Store) SetText(field, value string) error {
	switch field {
	case FieldLocation:
		s.SetLocation(value)
	case FieldBudget:
		s.SetBudget(value)
	case FieldMealPreferences:
		s.SetMealPreferences(value)
	default:
		return ErrUnknownField
	}
	return nil
}

// Remove drops a field and resets the panel state that feeds it.
func (s *Store) Remove(field string) {
	s.Unset(field)
	switch field {
	case FieldDates:
		s.transient.Dates = DateRange{}
	case FieldActivities:
		s.transient.Activities = make(map[string]struct{})
		s.syncDerived()
	case FieldTravelers:
		s.transient.Travelers = 1
	case FieldLocation:
		s.transient.Location = ""
	case FieldBudget:
		s.transient.Budget = ""
	case FieldMealPreferences:
		s.transient.MealPreferences = ""
	}
}
