package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPostRecommendable(t *testing.T) {
	tests := []struct {
		name string
		post Post
		want bool
	}{
		{name: "published", post: Post{}, want: true},
		{name: "draft", post: Post{Draft: true}, want: false},
		{name: "archived", post: Post{Archived: true}, want: false},
		{name: "unlisted", post: Post{Unlisted: true}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.post.Recommendable())
		})
	}
}

func TestPostToListing(t *testing.T) {
	post := Post{
		Slug:        "my-post",
		Title:       "My Post",
		Description: "About things.",
		Categories:  []string{"go"},
		Keywords:    []string{"testing"},
	}

	listing := post.ToListing("https://example.com/blog")

	assert.Equal(t, "my-post", listing.ID)
	assert.Equal(t, "my-post", listing.Slug)
	assert.Equal(t, "https://example.com/blog/my-post", listing.ProductionURL)
	assert.Equal(t, []string{"go"}, listing.Categories)
}

func TestTeamHelpers(t *testing.T) {
	assert.True(t, TeamRed.IsValid())
	assert.False(t, Team("GREEN").IsValid())

	assert.Equal(t, "🔴", TeamRed.Emoji())
	assert.Equal(t, "🟡", TeamYellow.Emoji())
	assert.Equal(t, "🔵", TeamBlue.Emoji())
}

func TestUserMention(t *testing.T) {
	discordID := "123"
	assert.Equal(t, "<@!123>", (&User{DiscordID: &discordID}).Mention())
	assert.Equal(t, "Ada", (&User{DisplayName: "Ada", Username: "ada"}).Mention())
	assert.Equal(t, "ada", (&User{Username: "ada"}).Mention())
}
