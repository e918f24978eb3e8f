package picker

import "go-autoindex/internal/model"

// Selection is the checklist state: a fixed list of directories, a selected
// flag per directory and a cursor.
type Selection struct {
	set      model.MatchedSet
	selected []bool
	cursor   int
}

func NewSelection(set model.MatchedSet) Selection {
	return Selection{
		set:      set,
		selected: make([]bool, len(set)),
	}
}

func (s Selection) Len() int { return len(s.set) }

func (s Selection) Cursor() int { return s.cursor }

func (s Selection) IsSelected(i int) bool {
	return i >= 0 && i < len(s.selected) && s.selected[i]
}

func (s *Selection) MoveUp() {
	if s.cursor > 0 {
		s.cursor--
	}
}

func (s *Selection) MoveDown() {
	if s.cursor < len(s.set)-1 {
		s.cursor++
	}
}

// Toggle flips the entry under the cursor. It does nothing on an empty list.
func (s *Selection) Toggle() {
	if s.cursor < len(s.selected) {
		s.selected[s.cursor] = !s.selected[s.cursor]
	}
}

// Selected returns the checked directories in list order.
func (s Selection) Selected() model.MatchedSet {
	out := model.MatchedSet{}
	for i, l := range s.set {
		if s.selected[i] {
			out = append(out, l)
		}
	}
	return out
}
