package app

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"time"

	"review_removal/internal/domain"
)

// CachedClassifier wraps a Classifier with a verdict cache keyed by a hash
// of the review body, so re-submitted sheets don't re-bill the model for
// bodies it has already judged. Cache failures fall through to the inner
// classifier.
type CachedClassifier struct {
	inner domain.Classifier
	cache domain.Cache
	ttl   time.Duration
}

func NewCachedClassifier(inner domain.Classifier, cache domain.Cache, ttl time.Duration) *CachedClassifier {
	return &CachedClassifier{inner: inner, cache: cache, ttl: ttl}
}

func verdictKey(body string) string {
	sum := sha1.Sum([]byte(body))
	return "verdict:" + hex.EncodeToString(sum[:])
}

func (c *CachedClassifier) ClassifyCompliance(ctx context.Context, body string) (string, error) {
	key := verdictKey(body)
	if cached, ok, _ := c.cache.Get(ctx, key); ok && (cached == "yes" || cached == "no") {
		return cached, nil
	}
	verdict, err := c.inner.ClassifyCompliance(ctx, body)
	if err != nil {
		return "", err
	}
	_ = c.cache.Set(ctx, key, verdict, int(c.ttl.Seconds()))
	return verdict, nil
}
