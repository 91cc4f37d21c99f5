package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTopics_Catalog(t *testing.T) {
	assert.Len(t, Topics, 12)
	assert.True(t, IsTopic("Thể thao"))
	assert.False(t, IsTopic("Chính trị"))
}

func TestTopicSelection_Toggle(t *testing.T) {
	var s TopicSelection

	selected, err := s.Toggle("Thể thao")
	assert.NoError(t, err)
	assert.True(t, selected)

	selected, err = s.Toggle("Du lịch")
	assert.NoError(t, err)
	assert.True(t, selected)
	assert.Equal(t, []string{"Thể thao", "Du lịch"}, s.Labels())

	selected, err = s.Toggle("Thể thao")
	assert.NoError(t, err)
	assert.False(t, selected)
	assert.Equal(t, []string{"Du lịch"}, s.Labels())
	assert.False(t, s.Contains("Thể thao"))
	assert.Equal(t, 1, s.Len())
}

func TestTopicSelection_UnknownTopic(t *testing.T) {
	var s TopicSelection

	_, err := s.Toggle("Unknown")
	assert.ErrorIs(t, err, ErrUnknownTopic)
	assert.Equal(t, 0, s.Len())
}

func TestTopicSelection_LabelsIsCopy(t *testing.T) {
	var s TopicSelection
	_, _ = s.Toggle("Xe")

	labels := s.Labels()
	labels[0] = "mutated"

	assert.Equal(t, []string{"Xe"}, s.Labels())
}
