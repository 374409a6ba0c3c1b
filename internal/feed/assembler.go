package feed

import (
	"context"
	"errors"

	"github.com/shaynlink/y-posts-service/internal/models"
	"github.com/shaynlink/y-posts-service/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrInvalidPagination flags page or limit values below 1.
var ErrInvalidPagination = errors.New("page and limit must be >= 1")

// Assembler resolves a feed selector into a decorated, paginated page of
// posts. It is the single feed implementation shared by every feed kind.
type Assembler struct {
	postRepository   repositories.PostRepository
	userRepository   repositories.UserRepository
	followRepository repositories.FollowRepository
	feedRepository   repositories.FeedRepository
}

// NewAssembler creates a new Assembler
func NewAssembler(
	postRepo repositories.PostRepository,
	userRepo repositories.UserRepository,
	followRepo repositories.FollowRepository,
	feedRepo repositories.FeedRepository,
) *Assembler {
	return &Assembler{
		postRepository:   postRepo,
		userRepository:   userRepo,
		followRepository: followRepo,
		feedRepository:   feedRepo,
	}
}

// Resolve turns the selector into an author filter, queries the matching
// page of posts in reverse-chronological order, and decorates each post with
// its author and a one-level-populated reference. A filter matching zero
// posts yields an empty page, not an error.
//
// Pages use skip/limit with offset (page-1)*limit; without snapshot
// isolation, concurrent inserts between page fetches can shift entries
// across page boundaries. Accepted limitation for this domain.
func (a *Assembler) Resolve(ctx context.Context, sel Selector, requesterID primitive.ObjectID, page, limit int) ([]models.PopulatedPost, error) {
	if page < 1 || limit < 1 {
		return nil, ErrInvalidPagination
	}

	authors, err := a.resolveAuthors(ctx, sel, requesterID)
	if err != nil {
		return nil, err
	}

	skip := int64(page-1) * int64(limit)
	posts, err := a.postRepository.GetFeedPage(ctx, authors, skip, int64(limit))
	if err != nil {
		return nil, err
	}

	return a.Decorate(ctx, posts)
}

// resolveAuthors maps a selector to the author filter for the page query.
// nil means no restriction.
func (a *Assembler) resolveAuthors(ctx context.Context, sel Selector, requesterID primitive.ObjectID) ([]primitive.ObjectID, error) {
	switch sel.Kind {
	case SelectorForYou:
		return nil, nil

	case SelectorSubscriptions:
		user, err := a.userRepository.GetUserByID(ctx, requesterID)
		if err != nil {
			return nil, err
		}
		targets, err := a.followRepository.GetFollowedIDs(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		if targets == nil {
			targets = []primitive.ObjectID{}
		}
		return targets, nil

	case SelectorCustom:
		feed, err := a.feedRepository.GetFeedForUser(ctx, sel.FeedID, requesterID)
		if err != nil {
			return nil, err
		}
		if feed.FromIDs == nil {
			return []primitive.ObjectID{}, nil
		}
		return feed.FromIDs, nil
	}

	return nil, ErrInvalidSelector
}

// Decorate populates the author projection of each post and, when a post
// carries a reference, the referenced post with its own author. Reference
// expansion stops at one level: a repost-of-a-repost keeps its inner ref as
// a bare identifier.
func (a *Assembler) Decorate(ctx context.Context, posts []models.Post) ([]models.PopulatedPost, error) {
	refIDs := make([]primitive.ObjectID, 0, len(posts))
	seenRefs := make(map[primitive.ObjectID]bool)
	for _, p := range posts {
		if p.Ref != nil && !seenRefs[*p.Ref] {
			seenRefs[*p.Ref] = true
			refIDs = append(refIDs, *p.Ref)
		}
	}

	refPosts, err := a.postRepository.GetPostsByIDs(ctx, refIDs)
	if err != nil {
		return nil, err
	}
	refMap := make(map[primitive.ObjectID]models.Post, len(refPosts))
	for _, p := range refPosts {
		refMap[p.ID] = p
	}

	authorIDs := make([]primitive.ObjectID, 0, len(posts)+len(refPosts))
	seenAuthors := make(map[primitive.ObjectID]bool)
	for _, p := range posts {
		if !seenAuthors[p.User] {
			seenAuthors[p.User] = true
			authorIDs = append(authorIDs, p.User)
		}
	}
	for _, p := range refPosts {
		if !seenAuthors[p.User] {
			seenAuthors[p.User] = true
			authorIDs = append(authorIDs, p.User)
		}
	}

	authorMap, err := a.userRepository.GetCompactByIDs(ctx, authorIDs)
	if err != nil {
		return nil, err
	}

	decorated := make([]models.PopulatedPost, len(posts))
	for i, p := range posts {
		decorated[i] = models.PopulatedPost{
			ID:        p.ID,
			Author:    authorMap[p.User],
			Content:   p.Content,
			Images:    p.Images,
			Timestamp: p.Timestamp,
			Likes:     p.Likes,
		}
		if p.Ref == nil {
			continue
		}
		ref, ok := refMap[*p.Ref]
		if !ok {
			// Referenced post was deleted; leave the ref unexpanded.
			continue
		}
		decorated[i].Ref = &models.PopulatedRef{
			ID:        ref.ID,
			Author:    authorMap[ref.User],
			Content:   ref.Content,
			Images:    ref.Images,
			Timestamp: ref.Timestamp,
			Likes:     ref.Likes,
		}
	}
	return decorated, nil
}

// DecorateOne is the single-post variant of Decorate, used by the post read
// and repost responses.
func (a *Assembler) DecorateOne(ctx context.Context, post *models.Post) (*models.PopulatedPost, error) {
	decorated, err := a.Decorate(ctx, []models.Post{*post})
	if err != nil {
		return nil, err
	}
	return &decorated[0], nil
}
