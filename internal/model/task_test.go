package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTaskFilter_Normalize(t *testing.T) {
	tests := []struct {
		name string
		in   TaskFilter
		want TaskFilter
	}{
		{
			name: "empty filter gets defaults",
			in:   TaskFilter{},
			want: TaskFilter{Status: StatusAll, Sort: SortDefault},
		},
		{
			name: "valid values pass through",
			in:   TaskFilter{Status: StatusCompleted, Sort: SortDueDate, Search: "milk"},
			want: TaskFilter{Status: StatusCompleted, Sort: SortDueDate, Search: "milk"},
		},
		{
			name: "nonsense values fall back silently",
			in:   TaskFilter{Status: "banana", Sort: "sideways"},
			want: TaskFilter{Status: StatusAll, Sort: SortDefault},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Normalize())
		})
	}
}

func TestTaskFilter_CompletedFilter(t *testing.T) {
	assert.Nil(t, TaskFilter{Status: StatusAll}.CompletedFilter())

	active := TaskFilter{Status: StatusActive}.CompletedFilter()
	if assert.NotNil(t, active) {
		assert.False(t, *active)
	}

	completed := TaskFilter{Status: StatusCompleted}.CompletedFilter()
	if assert.NotNil(t, completed) {
		assert.True(t, *completed)
	}
}

func TestPriority(t *testing.T) {
	assert.True(t, PriorityLow.Valid())
	assert.True(t, PriorityMedium.Valid())
	assert.True(t, PriorityHigh.Valid())
	assert.False(t, Priority("urgent").Valid())
	assert.False(t, Priority("").Valid())

	assert.Greater(t, PriorityHigh.Rank(), PriorityMedium.Rank())
	assert.Greater(t, PriorityMedium.Rank(), PriorityLow.Rank())
}
