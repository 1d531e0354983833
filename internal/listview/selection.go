package listview

// Selection is the row-selection set behind bulk-action screens.
// Rows are keyed by identity, so repeated toggles are idempotent in
// both directions.
type Selection[T any] struct {
	key   func(T) string
	rows  map[string]T
	order []string
}

// NewSelection creates a Selection keyed by the given identity
// function (typically the row ID).
func NewSelection[T any](key func(T) string) *Selection[T] {
	return &Selection[T]{
		key:  key,
		rows: make(map[string]T),
	}
}

// Set adds the row when checked is true and removes it when false.
// Adding an already-selected row or removing an absent one is a no-op.
func (s *Selection[T]) Set(checked bool, row T) {
	k := s.key(row)
	_, exists := s.rows[k]
	switch {
	case checked && !exists:
		s.rows[k] = row
		s.order = append(s.order, k)
	case !checked && exists:
		delete(s.rows, k)
		for i, ok := range s.order {
			if ok == k {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
	}
}

// SetAll replaces the selection wholesale, as the select-all checkbox
// does.
func (s *Selection[T]) SetAll(rows []T) {
	s.rows = make(map[string]T, len(rows))
	s.order = s.order[:0]
	for _, row := range rows {
		k := s.key(row)
		if _, exists := s.rows[k]; exists {
			continue
		}
		s.rows[k] = row
		s.order = append(s.order, k)
	}
}

// Has reports whether the row is selected.
func (s *Selection[T]) Has(row T) bool {
	_, ok := s.rows[s.key(row)]
	return ok
}

// Count returns the number of selected rows.
func (s *Selection[T]) Count() int { return len(s.rows) }

// Rows returns the selected rows in selection order.
func (s *Selection[T]) Rows() []T {
	out := make([]T, 0, len(s.order))
	for _, k := range s.order {
		out = append(out, s.rows[k])
	}
	return out
}

// Clear empties the selection.
func (s *Selection[T]) Clear() {
	s.rows = make(map[string]T)
	s.order = s.order[:0]
}
