package usecase

import "github.com/arseniiv/relwatch/pkg/domain/model"

// ClassifyAssets partitions assets into per-matcher buckets. Every matcher
// gets a bucket, in matcher-definition order, even when nothing matches.
// An asset matched by several matchers lands in each of their buckets; an
// asset matched by none is absent from all of them.
func ClassifyAssets(assets []model.Asset, matchers []model.Matcher) []model.AssetBucket {
	buckets := make([]model.AssetBucket, len(matchers))
	for i, m := range matchers {
		buckets[i] = model.AssetBucket{Pattern: m.Pattern}
	}

	for _, asset := range assets {
		for i, m := range matchers {
			if m.Match(asset.Name) {
				buckets[i].Assets = append(buckets[i].Assets, asset)
			}
		}
	}

	return buckets
}
