package reflection

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTags(t *testing.T) {
	got := Tags([]string{" Gratitude ", "#work", ""}, "Long day at #Work but #family dinner helped #family")
	assert.Equal(t, []string{"gratitude", "work", "family"}, got)
}

func TestTags_Empty(t *testing.T) {
	assert.Empty(t, Tags(nil, "no tags here"))
}

func TestTags_Cap(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 30; i++ {
		fmt.Fprintf(&b, "#t%d ", i)
	}
	got := Tags(nil, b.String())
	assert.Len(t, got, maxTags)
	assert.Equal(t, "t0", got[0])
}
