package paginate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlatten(t *testing.T) {
	t.Run("plain text passes through", func(t *testing.T) {
		assert.Equal(t, "just plain words", Flatten("just plain words"))
	})

	t.Run("strips markup", func(t *testing.T) {
		got := Flatten("<p>It was a <em>dark</em> and stormy night.</p>")
		assert.Equal(t, "It was a dark and stormy night.", got)
	})

	t.Run("joins block elements with spaces", func(t *testing.T) {
		got := Flatten("<h2>Chapter One</h2><p>The rain began.</p>")
		assert.Equal(t, "Chapter One The rain began.", got)
	})

	t.Run("ignores script and style", func(t *testing.T) {
		got := Flatten("<style>p{color:red}</style><p>visible</p><script>alert(1)</script>")
		assert.Equal(t, "visible", got)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Equal(t, "", Flatten(""))
	})
}
