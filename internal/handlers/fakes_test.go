package handlers

import (
	"context"
	"io"
	"sort"
	"time"

	"github.com/shaynlink/y-posts-service/internal/models"
	"github.com/shaynlink/y-posts-service/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory fakes shared by the handler tests.

type fakePostRepo struct {
	posts []models.Post
}

func (f *fakePostRepo) CreatePost(ctx context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	post.Timestamp = time.Now()
	if post.Images == nil {
		post.Images = []string{}
	}
	if post.Likes == nil {
		post.Likes = []primitive.ObjectID{}
	}
	f.posts = append(f.posts, *post)
	return nil
}

func (f *fakePostRepo) GetPostByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	for i := range f.posts {
		if f.posts[i].ID == id {
			p := f.posts[i]
			return &p, nil
		}
	}
	return nil, repositories.ErrPostNotFound
}

func (f *fakePostRepo) GetPostsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Post, error) {
	wanted := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	var out []models.Post
	for _, p := range f.posts {
		if wanted[p.ID] {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePostRepo) GetFeedPage(ctx context.Context, authors []primitive.ObjectID, skip, limit int64) ([]models.Post, error) {
	var matched []models.Post
	for _, p := range f.posts {
		if authors == nil {
			matched = append(matched, p)
			continue
		}
		for _, a := range authors {
			if p.User == a {
				matched = append(matched, p)
				break
			}
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Timestamp.After(matched[j].Timestamp)
	})
	if skip >= int64(len(matched)) {
		return []models.Post{}, nil
	}
	matched = matched[skip:]
	if int64(len(matched)) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (f *fakePostRepo) PostExists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	_, err := f.GetPostByID(ctx, id)
	return err == nil, nil
}

func (f *fakePostRepo) AddLike(ctx context.Context, postID, userID primitive.ObjectID) error {
	for i := range f.posts {
		if f.posts[i].ID == postID {
			if !f.posts[i].LikedBy(userID) {
				f.posts[i].Likes = append(f.posts[i].Likes, userID)
			}
			return nil
		}
	}
	return repositories.ErrPostNotFound
}

func (f *fakePostRepo) RemoveLike(ctx context.Context, postID, userID primitive.ObjectID) error {
	for i := range f.posts {
		if f.posts[i].ID == postID {
			likes := f.posts[i].Likes[:0]
			for _, id := range f.posts[i].Likes {
				if id != userID {
					likes = append(likes, id)
				}
			}
			f.posts[i].Likes = likes
			return nil
		}
	}
	return repositories.ErrPostNotFound
}

func (f *fakePostRepo) DeletePost(ctx context.Context, id primitive.ObjectID) error {
	for i := range f.posts {
		if f.posts[i].ID == id {
			f.posts = append(f.posts[:i], f.posts[i+1:]...)
			return nil
		}
	}
	return repositories.ErrPostNotFound
}

type fakeUserRepo struct {
	users map[primitive.ObjectID]models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[primitive.ObjectID]models.User{}}
}

func (f *fakeUserRepo) add(username string) primitive.ObjectID {
	id := primitive.NewObjectID()
	f.users[id] = models.User{ID: id, Username: username, Role: "user"}
	return id
}

func (f *fakeUserRepo) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return &u, nil
}

func (f *fakeUserRepo) GetCompactByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.UserCompact, error) {
	out := make(map[primitive.ObjectID]models.UserCompact)
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out[id] = u.ToCompact()
		}
	}
	return out, nil
}

func (f *fakeUserRepo) CountByIDs(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	var count int64
	for _, id := range ids {
		if _, ok := f.users[id]; ok {
			count++
		}
	}
	return count, nil
}

type fakeFollowRepo struct {
	edges []models.FollowInjunction
}

func (f *fakeFollowRepo) GetFollowedIDs(ctx context.Context, source primitive.ObjectID) ([]primitive.ObjectID, error) {
	var targets []primitive.ObjectID
	for _, e := range f.edges {
		if e.Source == source {
			targets = append(targets, e.Target)
		}
	}
	return targets, nil
}

type fakeFeedRepo struct {
	feeds []models.Feed
}

func (f *fakeFeedRepo) CreateFeed(ctx context.Context, feed *models.Feed) error {
	feed.ID = primitive.NewObjectID()
	f.feeds = append(f.feeds, *feed)
	return nil
}

func (f *fakeFeedRepo) GetFeedForUser(ctx context.Context, id, userID primitive.ObjectID) (*models.Feed, error) {
	for _, fd := range f.feeds {
		if fd.ID == id && fd.UserID == userID {
			out := fd
			return &out, nil
		}
	}
	return nil, repositories.ErrFeedNotFound
}

type fakeImageStore struct {
	objects []string
}

func (f *fakeImageStore) Upload(ctx context.Context, objectName string, r io.Reader) error {
	if _, err := io.Copy(io.Discard, r); err != nil {
		return err
	}
	f.objects = append(f.objects, objectName)
	return nil
}
