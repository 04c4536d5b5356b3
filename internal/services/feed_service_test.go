package services

import (
	"context"
	"net/http"
	"os"
	"testing"

	"github.com/amitrajade/vidtube-be/internal/database"
	"github.com/amitrajade/vidtube-be/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFeedFixture(t *testing.T) (*UserService, *FeedService, *fakeUploader, models.User) {
	t.Helper()
	db, err := database.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))

	users := NewUserService(db)
	uploader := &fakeUploader{}
	owner := createTestUser(t, users, "ana", "ana@x.com", "p@ss1")
	return users, NewFeedService(db, uploader), uploader, owner
}

func TestTweetCreateAndList(t *testing.T) {
	_, feed, _, owner := newFeedFixture(t)

	_, err := feed.CreateTweet(owner.ID, "   ")
	assertStatus(t, err, http.StatusBadRequest)

	first, err := feed.CreateTweet(owner.ID, "hello")
	require.NoError(t, err)
	assert.Equal(t, owner.ID, first.OwnerID)
	assert.NotEmpty(t, first.ID)

	_, err = feed.CreateTweet(owner.ID, "again")
	require.NoError(t, err)

	tweets, err := feed.ListTweetsByUser(owner.ID)
	require.NoError(t, err)
	assert.Len(t, tweets, 2)

	tweets, err = feed.ListTweetsByUser("nobody")
	require.NoError(t, err)
	assert.Empty(t, tweets)
}

func TestPlaylistCreateAndGet(t *testing.T) {
	_, feed, _, owner := newFeedFixture(t)

	_, err := feed.CreatePlaylist(owner.ID, "", "desc", nil)
	assertStatus(t, err, http.StatusBadRequest)

	created, err := feed.CreatePlaylist(owner.ID, "favorites", "the good ones", []string{"v1", "v2"})
	require.NoError(t, err)
	assert.Equal(t, []string{"v1", "v2"}, created.VideoIDs)

	fetched, err := feed.GetPlaylist(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Name, fetched.Name)

	_, err = feed.GetPlaylist("missing")
	assertStatus(t, err, http.StatusNotFound)

	lists, err := feed.ListPlaylistsByUser(owner.ID)
	require.NoError(t, err)
	assert.Len(t, lists, 1)
}

func TestLikes(t *testing.T) {
	_, feed, _, owner := newFeedFixture(t)

	tweet, err := feed.CreateTweet(owner.ID, "like me")
	require.NoError(t, err)

	like, err := feed.LikeTweet(tweet.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, tweet.ID, like.TweetID)
	assert.Empty(t, like.VideoID)

	likes, err := feed.ListLikesByUser(owner.ID)
	require.NoError(t, err)
	assert.Len(t, likes, 1)
	assert.Equal(t, owner.ID, likes[0].LikedBy)
}

func TestVideoPublish(t *testing.T) {
	_, feed, _, owner := newFeedFixture(t)
	dir := t.TempDir()

	videoPath := writeTempUpload(t, dir, "clip.mp4")
	thumbPath := writeTempUpload(t, dir, "thumb.png")

	video, err := feed.CreateVideo(context.Background(), VideoInput{
		OwnerID:       owner.ID,
		Title:         "First clip",
		Description:   "hello world",
		Duration:      12.5,
		VideoPath:     videoPath,
		ThumbnailPath: thumbPath,
	})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/clip.mp4", video.VideoURL)
	assert.Equal(t, "https://cdn.example.com/thumb.png", video.ThumbnailURL)
	assert.True(t, video.IsPublished)

	// Both temp files are gone.
	_, statErr := os.Stat(videoPath)
	assert.True(t, os.IsNotExist(statErr))
	_, statErr = os.Stat(thumbPath)
	assert.True(t, os.IsNotExist(statErr))

	fetched, err := feed.GetVideo(video.ID)
	require.NoError(t, err)
	assert.Equal(t, video.Title, fetched.Title)

	videos, err := feed.ListVideosByOwner(owner.ID)
	require.NoError(t, err)
	assert.Len(t, videos, 1)
}

func TestVideoPublishValidation(t *testing.T) {
	_, feed, uploader, owner := newFeedFixture(t)
	dir := t.TempDir()

	// Missing title
	_, err := feed.CreateVideo(context.Background(), VideoInput{
		OwnerID:       owner.ID,
		VideoPath:     writeTempUpload(t, dir, "a.mp4"),
		ThumbnailPath: writeTempUpload(t, dir, "a.png"),
	})
	assertStatus(t, err, http.StatusBadRequest)

	// Missing files
	_, err = feed.CreateVideo(context.Background(), VideoInput{OwnerID: owner.ID, Title: "x"})
	assertStatus(t, err, http.StatusBadRequest)

	// Upload failure degrades to a validation error, temp files cleaned up.
	uploader.fail = true
	videoPath := writeTempUpload(t, dir, "b.mp4")
	_, err = feed.CreateVideo(context.Background(), VideoInput{
		OwnerID:       owner.ID,
		Title:         "x",
		VideoPath:     videoPath,
		ThumbnailPath: writeTempUpload(t, dir, "b.png"),
	})
	assertStatus(t, err, http.StatusBadRequest)
	_, statErr := os.Stat(videoPath)
	assert.True(t, os.IsNotExist(statErr))
}
