package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeAndWrappers(t *testing.T) {
	assert.Equal(t, "&lt;b&gt;Tom &amp; Jerry&lt;/b&gt;", Escape("<b>Tom & Jerry</b>"))
	assert.Equal(t, "<b>a&lt;b</b>", Bold("a<b"))
	assert.Equal(t, "<i>x</i>", Italic("x"))
	assert.Equal(t, "<code>1&amp;2</code>", Code("1&2"))
	assert.Equal(t, `<a href="https://e.x/?a=1&amp;b=2">shop</a>`, Link("https://e.x/?a=1&b=2", "shop"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hello", Truncate("hello", 5))
	assert.Equal(t, "hell…", Truncate("hello!", 5))
	assert.Equal(t, "привет", Truncate("привет", 10))
	assert.Equal(t, "abc", Truncate("abc", 0))
}

func TestDeref(t *testing.T) {
	v := "value"
	blank := "  "
	assert.Equal(t, "value", Deref(&v, "-"))
	assert.Equal(t, "-", Deref(&blank, "-"))
	assert.Equal(t, "-", Deref(nil, "-"))
}
