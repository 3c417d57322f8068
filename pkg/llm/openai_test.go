package llm

import (
	"testing"

	"github.com/go-playground/assert/v2"
)

func TestParseTagList(t *testing.T) {
	tags := ParseTagList("Technology, Programming , web development,javascript")
	assert.Equal(t, tags, []string{"technology", "programming", "web development", "javascript"})
}

func TestParseTagList_CapsAtFive(t *testing.T) {
	tags := ParseTagList("a, b, c, d, e, f, g")
	assert.Equal(t, len(tags), 5)
	assert.Equal(t, tags[4], "e")
}

func TestParseTagList_DropsEmptyEntries(t *testing.T) {
	tags := ParseTagList(" , go, ,  testing ,")
	assert.Equal(t, tags, []string{"go", "testing"})
}

func TestParseTagList_EmptyInput(t *testing.T) {
	assert.Equal(t, len(ParseTagList("")), 0)
}
