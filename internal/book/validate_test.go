package book

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePayload(t *testing.T) {
	valid := bookPayload{
		Title:  "Test Book",
		Author: "Test Author",
		ISBN:   "978-0-123456-78-9",
	}

	t.Run("valid payload", func(t *testing.T) {
		assert.Empty(t, validatePayload(valid))
	})

	t.Run("missing title and author", func(t *testing.T) {
		details := validatePayload(bookPayload{})
		assert.Len(t, details, 2)

		fields := []string{details[0].Field, details[1].Field}
		assert.Contains(t, fields, "title")
		assert.Contains(t, fields, "author")
	})

	t.Run("isbn optional", func(t *testing.T) {
		p := valid
		p.ISBN = ""
		assert.Empty(t, validatePayload(p))
	})

	t.Run("bad isbn", func(t *testing.T) {
		p := valid
		p.ISBN = "not-an-isbn"
		details := validatePayload(p)
		assert.Len(t, details, 1)
		assert.Equal(t, "iSBN", details[0].Field)
	})

	t.Run("isbn10 with check digit X", func(t *testing.T) {
		p := valid
		p.ISBN = "043942089X"
		assert.Empty(t, validatePayload(p))
	})
}
