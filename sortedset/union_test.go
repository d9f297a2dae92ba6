package sortedset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnion(t *testing.T) {
	cases := []struct {
		name string
		a, b []uint16
		want []uint16
	}{
		{"disjoint", []uint16{1, 3, 5}, []uint16{2, 4, 6}, []uint16{1, 2, 3, 4, 5, 6}},
		{"overlapping", []uint16{1, 2, 3}, []uint16{2, 3, 4}, []uint16{1, 2, 3, 4}},
		{"identical", []uint16{7, 8}, []uint16{7, 8}, []uint16{7, 8}},
		{"a empty", []uint16{}, []uint16{1, 2}, []uint16{1, 2}},
		{"b empty", []uint16{1, 2}, []uint16{}, []uint16{1, 2}},
		{"both empty", []uint16{}, []uint16{}, []uint16{}},
		{"a exhausted early", []uint16{1}, []uint16{1, 2, 3}, []uint16{1, 2, 3}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Union(c.a, c.b)
			assert.Equal(t, c.want, got)
		})
	}
}

func TestUnionDoesNotMutateInputs(t *testing.T) {
	a := []uint16{1, 3}
	b := []uint16{2, 4}
	_ = Union(a, b)
	assert.Equal(t, []uint16{1, 3}, a)
	assert.Equal(t, []uint16{2, 4}, b)
}
