package recommendationsController

import (
	"testing"

	. "inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPosts() []Post {
	return []Post{
		{
			Slug:       "testing-react",
			Title:      "Testing React Applications",
			Categories: []string{"react", "testing"},
		},
		{
			Slug:        "state-management",
			Title:       "State Management",
			Description: "Why you might not need a library for testing state.",
		},
		{
			Slug:     "go-concurrency",
			Title:    "Concurrency Patterns",
			Keywords: []string{"goroutines", "channels"},
		},
	}
}

func TestFilterPosts(t *testing.T) {
	tests := []struct {
		name   string
		search string
		want   []string
	}{
		{
			name:   "empty search returns everything",
			search: "",
			want:   []string{"testing-react", "state-management", "go-concurrency"},
		},
		{
			name:   "title matches rank above metadata matches",
			search: "testing",
			want:   []string{"testing-react", "state-management"},
		},
		{
			name:   "keyword match",
			search: "channels",
			want:   []string{"go-concurrency"},
		},
		{
			name:   "case insensitive",
			search: "REACT",
			want:   []string{"testing-react"},
		},
		{
			name:   "no match",
			search: "kubernetes",
			want:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterPosts(testPosts(), tt.search)
			slugs := make([]string, 0, len(got))
			for _, post := range got {
				slugs = append(slugs, post.Slug)
			}
			assert.Equal(t, tt.want, slugs)
		})
	}
}

func TestFilterPosts_MultiWordFallback(t *testing.T) {
	posts := []Post{
		{
			Slug:       "full-match",
			Title:      "Concurrency",
			Categories: []string{"testing"},
		},
		{
			Slug:  "partial-match",
			Title: "Concurrency Only",
		},
	}

	// Neither field contains the whole phrase, but every word of it matches
	// somewhere on the first post.
	got := FilterPosts(posts, "testing concurrency")
	require.Len(t, got, 1)
	assert.Equal(t, "full-match", got[0].Slug)
}
