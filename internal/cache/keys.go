package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	BlogKeyPrefix    = "blog:%d"
	RecentBlogsKey   = "blogs:recent"
	ProfileKeyPrefix = "profile:%d"
)

const (
	BlogTTL    = 30 * time.Minute
	RecentTTL  = 2 * time.Minute
	ProfileTTL = 5 * time.Minute
)

func BlogKey(blogID uint) string {
	return fmt.Sprintf(BlogKeyPrefix, blogID)
}

func ProfileKey(userID uint) string {
	return fmt.Sprintf(ProfileKeyPrefix, userID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateBlog(ctx context.Context, blogID uint) {
	Invalidate(ctx, BlogKey(blogID))
	Invalidate(ctx, RecentBlogsKey)
}

func InvalidateRecentBlogs(ctx context.Context) {
	Invalidate(ctx, RecentBlogsKey)
}

func InvalidateProfile(ctx context.Context, userID uint) {
	Invalidate(ctx, ProfileKey(userID))
}
