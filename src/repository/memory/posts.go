package memory

import (
	"context"

	"github.com/mvjl000/socnet-backend/src/models"
	"github.com/mvjl000/socnet-backend/src/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type postRepository struct {
	s *Store
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if post.Id.IsZero() {
		post.Id = primitive.NewObjectID()
	}
	if _, ok := r.s.posts[post.Id]; ok {
		return repository.ErrDuplicate
	}
	r.s.posts[post.Id] = clonePost(post)
	return nil
}

func (r *postRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.posts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return clonePost(p), nil
}

func (r *postRepository) FindAll(ctx context.Context) ([]models.Post, error) {
	return r.filter(ctx, func(*models.Post) bool { return true })
}

func (r *postRepository) FindByCreator(ctx context.Context, creatorID primitive.ObjectID) ([]models.Post, error) {
	return r.filter(ctx, func(p *models.Post) bool { return p.CreatorId == creatorID })
}

func (r *postRepository) FindReported(ctx context.Context) ([]models.Post, error) {
	return r.filter(ctx, func(p *models.Post) bool { return p.IsPostReported })
}

func (r *postRepository) filter(ctx context.Context, keep func(p *models.Post) bool) ([]models.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	posts := []models.Post{}
	for _, p := range r.s.posts {
		if keep(p) {
			posts = append(posts, *clonePost(p))
		}
	}
	sortNewestFirst(posts)
	return posts, nil
}

func (r *postRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.posts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.posts, id)
	return nil
}

func (r *postRepository) DeleteByCreator(ctx context.Context, creatorID primitive.ObjectID) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var deleted int64
	for id, p := range r.s.posts {
		if p.CreatorId == creatorID {
			delete(r.s.posts, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *postRepository) AddLike(ctx context.Context, postID, userID primitive.ObjectID) (*models.Post, error) {
	return r.conditional(ctx, postID, func(p *models.Post) bool {
		if p.IsLikedBy(userID) {
			return false
		}
		p.LikedBy = append(p.LikedBy, userID)
		p.LikesCount++
		return true
	})
}

func (r *postRepository) RemoveLike(ctx context.Context, postID, userID primitive.ObjectID) (*models.Post, error) {
	return r.conditional(ctx, postID, func(p *models.Post) bool {
		if !p.IsLikedBy(userID) {
			return false
		}
		kept := make([]primitive.ObjectID, 0, len(p.LikedBy))
		for _, id := range p.LikedBy {
			if id != userID {
				kept = append(kept, id)
			}
		}
		p.LikedBy = kept
		p.LikesCount--
		return true
	})
}

func (r *postRepository) PushComment(ctx context.Context, postID primitive.ObjectID, comment models.Comment) error {
	_, err := r.conditional(ctx, postID, func(p *models.Post) bool {
		p.Comments = append(p.Comments, comment)
		p.CommentsCount++
		return true
	})
	if err == repository.ErrNoMatch {
		return repository.ErrNotFound
	}
	return err
}

func (r *postRepository) PullComment(ctx context.Context, postID, commentID primitive.ObjectID) error {
	_, err := r.conditional(ctx, postID, func(p *models.Post) bool {
		if p.FindComment(commentID) == nil {
			return false
		}
		kept := make([]models.Comment, 0, len(p.Comments))
		for _, c := range p.Comments {
			if c.Id != commentID {
				kept = append(kept, c)
			}
		}
		p.Comments = kept
		p.CommentsCount--
		return true
	})
	return err
}

func (r *postRepository) MarkReported(ctx context.Context, postID primitive.ObjectID) error {
	_, err := r.conditional(ctx, postID, func(p *models.Post) bool {
		if p.IsPostReported {
			return false
		}
		p.IsPostReported = true
		return true
	})
	return err
}

func (r *postRepository) UpdateContent(ctx context.Context, postID primitive.ObjectID, content string) error {
	_, err := r.conditional(ctx, postID, func(p *models.Post) bool {
		p.Content = content
		p.Edited = true
		return true
	})
	if err == repository.ErrNoMatch {
		return repository.ErrNotFound
	}
	return err
}

// conditional applies mutate under the store lock. mutate returns false when
// its precondition fails, which leaves the post untouched.
func (r *postRepository) conditional(ctx context.Context, postID primitive.ObjectID, mutate func(p *models.Post) bool) (*models.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.posts[postID]
	if !ok {
		return nil, repository.ErrNoMatch
	}
	next := clonePost(p)
	if !mutate(next) {
		return nil, repository.ErrNoMatch
	}
	r.s.posts[postID] = next
	return clonePost(next), nil
}
