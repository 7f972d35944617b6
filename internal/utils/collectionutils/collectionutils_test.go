package collectionutils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type item struct {
	id    int
	group string
}

func TestAssociate(t *testing.T) {
	items := []item{{1, "a"}, {2, "b"}, {3, "a"}}

	byID := Associate(items, func(i item) (int, string) { return i.id, i.group })
	assert.Equal(t, map[int]string{1: "a", 2: "b", 3: "a"}, byID)

	assert.Equal(t, "none", GetOrDefault(byID, 9, "none"))
	assert.Equal(t, "b", GetOrDefault(byID, 2, "none"))
}

func TestMap(t *testing.T) {
	ids := Map([]item{{1, "a"}, {2, "b"}}, func(i item) int { return i.id * 10 })
	assert.Equal(t, []int{10, 20}, ids)
}
