package redis

import (
	"context"
	"fmt"
	"time"
)

// DocumentCache keeps extracted document text in Redis so repeated
// analyses of the same document skip the PDF extraction pass.
type DocumentCache struct {
	client RedisClient
	ttl    time.Duration
}

func NewDocumentCache(client RedisClient, ttl time.Duration) *DocumentCache {
	return &DocumentCache{
		client: client,
		ttl:    ttl,
	}
}

func contentKey(documentID int64) string {
	return fmt.Sprintf("document_content:%d", documentID)
}

func (c *DocumentCache) StoreContent(ctx context.Context, documentID int64, content string) error {
	return c.client.Set(ctx, contentKey(documentID), content, c.ttl)
}

// GetContent returns ("", false, nil) on a cache miss.
func (c *DocumentCache) GetContent(ctx context.Context, documentID int64) (string, bool, error) {
	data, err := c.client.Get(ctx, contentKey(documentID))
	if err != nil {
		if IsNotFound(err) {
			return "", false, nil
		}
		return "", false, err
	}
	return data, true, nil
}

func (c *DocumentCache) DeleteContent(ctx context.Context, documentID int64) error {
	return c.client.Del(ctx, contentKey(documentID))
}
