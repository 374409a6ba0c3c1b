package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shaynlink/y-posts-service/internal/feed"
	"github.com/shaynlink/y-posts-service/internal/middleware"
	"github.com/shaynlink/y-posts-service/internal/models"
	"github.com/shaynlink/y-posts-service/internal/validators"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type postFixture struct {
	e       *echo.Echo
	handler *PostHandler
	posts   *fakePostRepo
	users   *fakeUserRepo
	images  *fakeImageStore
}

func newPostFixture() *postFixture {
	e := echo.New()
	e.Validator = validators.NewValidator()

	posts := &fakePostRepo{}
	users := newFakeUserRepo()
	images := &fakeImageStore{}
	assembler := feed.NewAssembler(posts, users, &fakeFollowRepo{}, &fakeFeedRepo{})

	return &postFixture{
		e:       e,
		handler: NewPostHandler(posts, assembler, images),
		posts:   posts,
		users:   users,
		images:  images,
	}
}

func (f *postFixture) formContext(method, target string, form url.Values, userID primitive.ObjectID) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	c := f.e.NewContext(req, rec)
	c.Set(middleware.UserIDKey, userID)
	return c, rec
}

func (f *postFixture) addPost(author primitive.ObjectID, content string) models.Post {
	post := models.Post{
		ID:        primitive.NewObjectID(),
		User:      author,
		Content:   content,
		Images:    []string{},
		Timestamp: time.Now(),
		Likes:     []primitive.ObjectID{},
	}
	f.posts.posts = append(f.posts.posts, post)
	return post
}

func httpErrorCode(t *testing.T, err error) int {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected *echo.HTTPError, got %v", err)
	return he.Code
}

func TestCreatePost(t *testing.T) {
	f := newPostFixture()
	alice := f.users.add("alice")

	c, rec := f.formContext(http.MethodPost, "/", url.Values{"content": {"hello world"}}, alice)
	require.NoError(t, f.handler.CreatePost(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var created models.Post
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, alice, created.User)
	assert.Equal(t, "hello world", created.Content)
	assert.False(t, created.Timestamp.IsZero())
	assert.Empty(t, created.Likes)
}

func TestCreatePostNeitherContentNorRef(t *testing.T) {
	f := newPostFixture()
	alice := f.users.add("alice")

	c, _ := f.formContext(http.MethodPost, "/", url.Values{}, alice)
	err := f.handler.CreatePost(c)
	assert.Equal(t, http.StatusBadRequest, httpErrorCode(t, err))
}

func TestCreatePostContentTooLong(t *testing.T) {
	f := newPostFixture()
	alice := f.users.add("alice")

	long := strings.Repeat("a", models.MaxContentLength+1)
	c, _ := f.formContext(http.MethodPost, "/", url.Values{"content": {long}}, alice)
	err := f.handler.CreatePost(c)
	assert.Equal(t, http.StatusBadRequest, httpErrorCode(t, err))

	// Exactly 255 characters is fine.
	ok := strings.Repeat("a", models.MaxContentLength)
	c, rec := f.formContext(http.MethodPost, "/", url.Values{"content": {ok}}, alice)
	require.NoError(t, f.handler.CreatePost(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestCreatePostWithRefOnly(t *testing.T) {
	f := newPostFixture()
	alice := f.users.add("alice")
	bob := f.users.add("bob")
	target := f.addPost(bob, "original")

	c, rec := f.formContext(http.MethodPost, "/", url.Values{"ref": {target.ID.Hex()}}, alice)
	require.NoError(t, f.handler.CreatePost(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var created models.Post
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotNil(t, created.Ref)
	assert.Equal(t, target.ID, *created.Ref)
}

func TestCreatePostInvalidRef(t *testing.T) {
	f := newPostFixture()
	alice := f.users.add("alice")

	c, _ := f.formContext(http.MethodPost, "/", url.Values{"ref": {"not-an-id"}}, alice)
	err := f.handler.CreatePost(c)
	assert.Equal(t, http.StatusBadRequest, httpErrorCode(t, err))
}

func TestCreatePostMissingRefTarget(t *testing.T) {
	f := newPostFixture()
	alice := f.users.add("alice")

	c, _ := f.formContext(http.MethodPost, "/", url.Values{"ref": {primitive.NewObjectID().Hex()}}, alice)
	err := f.handler.CreatePost(c)
	assert.Equal(t, http.StatusNotFound, httpErrorCode(t, err))
}

func TestCreatePostUploadsImages(t *testing.T) {
	f := newPostFixture()
	alice := f.users.add("alice")

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("content", "with picture"))
	fw, err := mw.CreateFormFile("images", "cat.png")
	require.NoError(t, err)
	_, err = fw.Write([]byte("not really a png"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
	rec := httptest.NewRecorder()
	c := f.e.NewContext(req, rec)
	c.Set(middleware.UserIDKey, alice)

	require.NoError(t, f.handler.CreatePost(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var created models.Post
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Len(t, created.Images, 1)
	assert.True(t, strings.HasSuffix(created.Images[0], ".png"))

	require.Len(t, f.images.objects, 1)
	assert.True(t, strings.HasPrefix(f.images.objects[0], "posts/"+alice.Hex()+"/"))
}

func TestRepost(t *testing.T) {
	f := newPostFixture()
	alice := f.users.add("alice")
	bob := f.users.add("bob")
	target := f.addPost(bob, "original")

	c, rec := f.formContext(http.MethodPost, "/", url.Values{"content": {"check this out"}}, alice)
	c.SetParamNames("id")
	c.SetParamValues(target.ID.Hex())

	require.NoError(t, f.handler.Repost(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var created models.PopulatedPost
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "alice", created.Author.Username)
	require.NotNil(t, created.Ref)
	assert.Equal(t, target.ID, created.Ref.ID)
	assert.Equal(t, "bob", created.Ref.Author.Username)
}

func TestRepostMissingTarget(t *testing.T) {
	f := newPostFixture()
	alice := f.users.add("alice")

	c, _ := f.formContext(http.MethodPost, "/", url.Values{}, alice)
	c.SetParamNames("id")
	c.SetParamValues(primitive.NewObjectID().Hex())

	err := f.handler.Repost(c)
	assert.Equal(t, http.StatusNotFound, httpErrorCode(t, err))
}

func TestLikePost(t *testing.T) {
	f := newPostFixture()
	alice := f.users.add("alice")
	bob := f.users.add("bob")
	post := f.addPost(bob, "like me")

	c, rec := f.formContext(http.MethodPut, "/", url.Values{}, alice)
	c.SetParamNames("id")
	c.SetParamValues(post.ID.Hex())

	require.NoError(t, f.handler.LikePost(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	stored, err := f.posts.GetPostByID(c.Request().Context(), post.ID)
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{alice}, stored.Likes)
}

func TestLikePostTwice(t *testing.T) {
	f := newPostFixture()
	alice := f.users.add("alice")
	bob := f.users.add("bob")
	post := f.addPost(bob, "like me")

	c, _ := f.formContext(http.MethodPut, "/", url.Values{}, alice)
	c.SetParamNames("id")
	c.SetParamValues(post.ID.Hex())
	require.NoError(t, f.handler.LikePost(c))

	c, _ = f.formContext(http.MethodPut, "/", url.Values{}, alice)
	c.SetParamNames("id")
	c.SetParamValues(post.ID.Hex())
	err := f.handler.LikePost(c)
	assert.Equal(t, http.StatusBadRequest, httpErrorCode(t, err))

	// The likes list never gains a duplicate entry.
	stored, getErr := f.posts.GetPostByID(c.Request().Context(), post.ID)
	require.NoError(t, getErr)
	assert.Equal(t, []primitive.ObjectID{alice}, stored.Likes)
}

func TestUnlikePost(t *testing.T) {
	f := newPostFixture()
	alice := f.users.add("alice")
	bob := f.users.add("bob")
	post := f.addPost(bob, "liked")
	f.posts.posts[len(f.posts.posts)-1].Likes = []primitive.ObjectID{alice}

	c, rec := f.formContext(http.MethodDelete, "/", url.Values{}, alice)
	c.SetParamNames("id")
	c.SetParamValues(post.ID.Hex())

	require.NoError(t, f.handler.UnlikePost(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	stored, err := f.posts.GetPostByID(c.Request().Context(), post.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Likes)
}

func TestUnlikePostNeverLiked(t *testing.T) {
	f := newPostFixture()
	alice := f.users.add("alice")
	bob := f.users.add("bob")
	post := f.addPost(bob, "never liked")

	c, _ := f.formContext(http.MethodDelete, "/", url.Values{}, alice)
	c.SetParamNames("id")
	c.SetParamValues(post.ID.Hex())

	err := f.handler.UnlikePost(c)
	assert.Equal(t, http.StatusBadRequest, httpErrorCode(t, err))
}

func TestLikeMissingPost(t *testing.T) {
	f := newPostFixture()
	alice := f.users.add("alice")

	c, _ := f.formContext(http.MethodPut, "/", url.Values{}, alice)
	c.SetParamNames("id")
	c.SetParamValues(primitive.NewObjectID().Hex())

	err := f.handler.LikePost(c)
	assert.Equal(t, http.StatusNotFound, httpErrorCode(t, err))
}

func TestGetPostPopulatesAuthor(t *testing.T) {
	f := newPostFixture()
	alice := f.users.add("alice")
	post := f.addPost(alice, "hello")

	c, rec := f.formContext(http.MethodGet, "/", url.Values{}, alice)
	c.SetParamNames("id")
	c.SetParamValues(post.ID.Hex())

	require.NoError(t, f.handler.GetPost(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var got models.PopulatedPost
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "alice", got.Author.Username)
	// Credentials never reach the response.
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestDeletePostAsNonAuthor(t *testing.T) {
	f := newPostFixture()
	alice := f.users.add("alice")
	mallory := f.users.add("mallory")
	post := f.addPost(alice, "mine")

	c, _ := f.formContext(http.MethodDelete, "/", url.Values{}, mallory)
	c.SetParamNames("id")
	c.SetParamValues(post.ID.Hex())

	err := f.handler.DeletePost(c)
	assert.Equal(t, http.StatusUnauthorized, httpErrorCode(t, err))
}

func TestDeletePostAsAuthor(t *testing.T) {
	f := newPostFixture()
	alice := f.users.add("alice")
	post := f.addPost(alice, "mine")

	c, rec := f.formContext(http.MethodDelete, "/", url.Values{}, alice)
	c.SetParamNames("id")
	c.SetParamValues(post.ID.Hex())

	require.NoError(t, f.handler.DeletePost(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// No longer retrievable: a second lookup is a 404.
	c, _ = f.formContext(http.MethodGet, "/", url.Values{}, alice)
	c.SetParamNames("id")
	c.SetParamValues(post.ID.Hex())
	err := f.handler.GetPost(c)
	assert.Equal(t, http.StatusNotFound, httpErrorCode(t, err))
}

func TestDeletePostInvalidID(t *testing.T) {
	f := newPostFixture()
	alice := f.users.add("alice")

	c, _ := f.formContext(http.MethodDelete, "/", url.Values{}, alice)
	c.SetParamNames("id")
	c.SetParamValues("garbage")

	err := f.handler.DeletePost(c)
	assert.Equal(t, http.StatusBadRequest, httpErrorCode(t, err))
}
