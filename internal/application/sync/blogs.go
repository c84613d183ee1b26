package sync

import (
	"context"

	"go.uber.org/zap"

	"github.com/sitesync/backend/internal/domain/platform"
	"github.com/sitesync/backend/internal/domain/weebly"
)

// RefreshBlogs makes the mirrored blogs of a site, and the posts of
// each blog, match the platform. Sites on plans without blog API
// access are skipped.
func (s *Service) RefreshBlogs(ctx context.Context, siteID int64) (*Result, error) {
	site, err := s.siteBySiteID(ctx, siteID)
	if err != nil {
		return nil, err
	}
	token, credential, err := s.tokenForSite(ctx, site)
	if err != nil {
		return nil, err
	}

	remotes, err := s.gateway.ListBlogs(ctx, token, site.SiteID)
	s.recordOutcome(ctx, credential, err)
	if err != nil {
		if platform.IsExpected(err) {
			s.logger.Warn("blogs not accessible for site",
				zap.Int64("site_id", site.SiteID),
				zap.Error(err))
			return &Result{Changed: false}, nil
		}
		return nil, err
	}

	locals, err := s.repos.Blogs.FindBySite(ctx, site.ID)
	if err != nil {
		return nil, err
	}

	log := s.logger.With(zap.Int64("site_id", site.SiteID))
	changed, skipped, err := reconcile(ctx, log, ptrs(locals), remotes, reconcileOps[weebly.Blog, platform.RemoteBlog]{
		kind:      "blog",
		localKey:  func(b *weebly.Blog) int64 { return b.BlogID },
		remoteKey: func(r platform.RemoteBlog) int64 { return r.BlogID },
		create: func(r platform.RemoteBlog) (*weebly.Blog, error) {
			return weebly.NewBlog(site.ID, r.BlogID, r.PageID, Unescape(r.Title))
		},
		apply: func(b *weebly.Blog, r platform.RemoteBlog) bool {
			return b.Apply(r.PageID, Unescape(r.Title))
		},
		refetch: func(ctx context.Context, r platform.RemoteBlog) (*weebly.Blog, error) {
			return s.repos.Blogs.FindByBlogID(ctx, r.BlogID)
		},
		save: s.repos.Blogs.Save,
		delete: func(ctx context.Context, b *weebly.Blog) error {
			return s.repos.Blogs.Delete(ctx, b.ID)
		},
	})
	if len(skipped) > 0 {
		s.alertSkipped(ctx, "blogs", site, len(skipped), skippedPayload(skipped))
	}
	if err != nil {
		return nil, err
	}

	blogs, err := s.repos.Blogs.FindBySite(ctx, site.ID)
	if err != nil {
		return nil, err
	}
	for i := range blogs {
		postsChanged, err := s.refreshPosts(ctx, token, credential, site, &blogs[i])
		if err != nil {
			return nil, err
		}
		changed = changed || postsChanged
	}
	return &Result{Changed: changed}, nil
}

// refreshPosts reconciles the post list of one blog, then pulls the
// full record of every post
func (s *Service) refreshPosts(ctx context.Context, token platform.AccessToken, credential *weebly.Credential, site *weebly.Site, blog *weebly.Blog) (bool, error) {
	remotes, err := s.gateway.ListPosts(ctx, token, site.SiteID, blog.BlogID)
	s.recordOutcome(ctx, credential, err)
	if err != nil {
		return false, err
	}

	locals, err := s.repos.Posts.FindByBlog(ctx, blog.ID)
	if err != nil {
		return false, err
	}

	log := s.logger.With(
		zap.Int64("site_id", site.SiteID),
		zap.Int64("blog_id", blog.BlogID))
	changed, skipped, err := reconcile(ctx, log, ptrs(locals), remotes, reconcileOps[weebly.BlogPost, platform.RemoteBlogPost]{
		kind:      "post",
		localKey:  func(p *weebly.BlogPost) int64 { return p.PostID },
		remoteKey: func(r platform.RemoteBlogPost) int64 { return r.PostID },
		create: func(r platform.RemoteBlogPost) (*weebly.BlogPost, error) {
			return weebly.NewBlogPost(blog.ID, r.PostID, Unescape(r.Title))
		},
		apply: func(p *weebly.BlogPost, r platform.RemoteBlogPost) bool {
			v := postValues(p)
			v.Title = Unescape(r.Title)
			v.CreatedDate = r.CreatedDate
			return p.Apply(v)
		},
		refetch: func(ctx context.Context, r platform.RemoteBlogPost) (*weebly.BlogPost, error) {
			return s.repos.Posts.FindByPostID(ctx, r.PostID)
		},
		save: s.repos.Posts.Save,
		delete: func(ctx context.Context, p *weebly.BlogPost) error {
			return s.repos.Posts.Delete(ctx, p.ID)
		},
	})
	if len(skipped) > 0 {
		s.alertSkipped(ctx, "posts", site, len(skipped), skippedPayload(skipped))
	}
	if err != nil {
		return changed, err
	}

	posts, err := s.repos.Posts.FindByBlog(ctx, blog.ID)
	if err != nil {
		return changed, err
	}
	for i := range posts {
		detailChanged, err := s.refreshPostDetail(ctx, token, credential, site, blog, &posts[i])
		if err != nil {
			if platform.IsExpected(err) {
				log.Warn("skipping post detail",
					zap.Int64("post_id", posts[i].PostID),
					zap.Error(err))
				continue
			}
			return changed, err
		}
		changed = changed || detailChanged
	}
	return changed, nil
}

// refreshPostDetail applies the full post record. The detail payload
// carries no share message, so the stored one is kept.
func (s *Service) refreshPostDetail(ctx context.Context, token platform.AccessToken, credential *weebly.Credential, site *weebly.Site, blog *weebly.Blog, post *weebly.BlogPost) (bool, error) {
	detail, err := s.gateway.GetPost(ctx, token, site.SiteID, blog.BlogID, post.PostID)
	s.recordOutcome(ctx, credential, err)
	if err != nil {
		return false, err
	}

	values := weebly.BlogPostValues{
		Title:        Unescape(detail.Title),
		CreatedDate:  detail.CreatedDate,
		UpdatedDate:  detail.UpdatedDate,
		Body:         Unescape(detail.Body),
		Link:         Unescape(detail.Link),
		URL:          Unescape(detail.URL),
		ShareMessage: post.ShareMessage,
		SEOTitle:     Unescape(detail.SEOTitle),
		SEODesc:      Unescape(detail.SEODescription),
		Tags:         weebly.TagMap(UnescapeTagValues(detail.Tags)),
	}
	if !post.Apply(values) {
		return false, nil
	}
	s.logger.Info("updating post details",
		zap.Int64("site_id", site.SiteID),
		zap.Int64("post_id", post.PostID))
	if err := s.repos.Posts.Save(ctx, post); err != nil {
		return false, err
	}
	return true, nil
}

// postValues snapshots the current state of a post so a partial update
// can leave the remaining fields alone
func postValues(p *weebly.BlogPost) weebly.BlogPostValues {
	return weebly.BlogPostValues{
		Title:        p.Title,
		CreatedDate:  p.CreatedDate,
		UpdatedDate:  p.UpdatedDate,
		Body:         p.Body,
		Link:         p.Link,
		URL:          p.URL,
		ShareMessage: p.ShareMessage,
		SEOTitle:     p.SEOTitle,
		SEODesc:      p.SEODesc,
		Tags:         p.Tags,
	}
}
