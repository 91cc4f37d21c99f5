package domain

import "slices"

// Topics is the fixed catalog a user picks initial preferences from
var Topics = []string{
	"Xã hội",
	"Thế giới",
	"Kinh tế",
	"Đời sống",
	"Sức khoẻ",
	"Giáo dục",
	"Thể thao",
	"Giải trí",
	"Du lịch",
	"Pháp luật",
	"Khoa học - Công nghệ",
	"Xe",
}

// IsTopic reports whether label belongs to the catalog
func IsTopic(label string) bool {
	return slices.Contains(Topics, label)
}

// TopicSelection is an ordered set of catalog topics.
// Order is the order in which topics were selected.
type TopicSelection struct {
	labels []string
}

// Toggle adds label if absent and removes it otherwise.
// Returns whether label is selected after the call.
func (s *TopicSelection) Toggle(label string) (bool, error) {
	if !IsTopic(label) {
		return false, ErrUnknownTopic
	}
	if i := slices.Index(s.labels, label); i >= 0 {
		s.labels = slices.Delete(s.labels, i, i+1)
		return false, nil
	}
	s.labels = append(s.labels, label)
	return true, nil
}

// Contains reports whether label is selected
func (s *TopicSelection) Contains(label string) bool {
	return slices.Contains(s.labels, label)
}

// Labels returns a copy of the selected labels in selection order
func (s *TopicSelection) Labels() []string {
	return slices.Clone(s.labels)
}

func (s *TopicSelection) Len() int {
	return len(s.labels)
}
