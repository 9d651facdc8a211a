package engine

import (
	"context"
	"encoding/json"

	"github.com/shopperos/tastekit/core"
	"github.com/shopperos/tastekit/filter"
	"github.com/shopperos/tastekit/pkg/idkit"
	"github.com/shopperos/tastekit/rerank"
	"github.com/shopperos/tastekit/snapshot"
	"github.com/shopperos/tastekit/vector"
)

// TasteRequest 是口味计算（onboarding 校准结果）的输入。
type TasteRequest struct {
	// UserID 可选；提供且引擎配置了写穿缓存时，派生向量以该用户为 key 写入缓存
	UserID string

	LikedIDs    []string // 必填非空，否则 INSUFFICIENT_SIGNAL
	DislikedIDs []string // 可选

	// RecommendK 附带推荐的数量，0 表示取 TasteRecommendDefault，上界 TasteRecommendMax
	RecommendK int
}

// TasteResult 是口味计算的输出。
// TasteVector 只在本次请求中派生，不写回快照；快照加载后只读。
type TasteResult struct {
	TasteVector     []float64
	Recommendations []*core.Item
}

// TasteFromCalibration 从校准滑动（喜欢/不喜欢）计算派生口味向量，
// 并附带一组排除了所有滑过商品的推荐。
//
// 聚合算法与礼物建议一致：mean(liked) - DislikeWeight*mean(disliked)，归一化。
// 喜欢列表为空是结构化错误 INSUFFICIENT_SIGNAL，绝不静默退回零向量。
func (e *Engine) TasteFromCalibration(ctx context.Context, req TasteRequest) (*TasteResult, error) {
	k := req.RecommendK
	if k == 0 {
		k = e.tuning.TasteRecommendDefault
	}
	if k < 1 || k > e.tuning.TasteRecommendMax {
		// 报生效值而非请求原值：缺省补出来的 k 越界时 "got 0" 只会误导排查
		return nil, invalidInput("recommend_k must be in [1,%d], got %d", e.tuning.TasteRecommendMax, k)
	}

	snap, err := e.current()
	if err != nil {
		return nil, err
	}

	taste, _, err := e.aggregateTaste(snap, req.LikedIDs, req.DislikedIDs)
	if err != nil {
		return nil, err
	}

	// 排除所有滑过的商品，过采样后截回 k
	exclude := append(idkit.NormalizeAll(req.LikedIDs), idkit.NormalizeAll(req.DislikedIDs)...)
	hits, err := snap.Index().Search(taste, k*e.tuning.OverSampleFactor)
	if err != nil {
		return nil, err
	}
	items, err := hydrate(snap, hits, "taste_derived")
	if err != nil {
		return nil, err
	}

	rctx := &core.RecommendContext{UserID: req.UserID, Scene: "calibration"}
	items, err = run(ctx, rctx, items,
		&filter.Node{Filters: []filter.Filter{filter.NewBlacklist(exclude)}},
		&rerank.TopN{N: k},
	)
	if err != nil {
		return nil, err
	}

	e.cacheTaste(ctx, req.UserID, taste)

	return &TasteResult{TasteVector: taste, Recommendations: items}, nil
}

// aggregateTaste 把喜欢/不喜欢的商品聚合为一个归一化查询向量。
// 返回成功解析的喜欢商品，供调用方统计主导类目/颜色。
func (e *Engine) aggregateTaste(
	snap *snapshot.Snapshot,
	likedIDs, dislikedIDs []string,
) ([]float64, []*core.Product, error) {
	if len(likedIDs) == 0 {
		return nil, nil, core.NewDomainError(core.ModuleEngine, core.ErrorCodeInsufficientSignal,
			"engine: need at least one liked product")
	}

	var likedVecs [][]float64
	var likedProducts []*core.Product
	for _, raw := range likedIDs {
		p, err := snap.Product(raw)
		if err != nil {
			continue // 滑动列表可能含已下架商品
		}
		likedVecs = append(likedVecs, snap.EmbeddingRow(p.EmbeddingIndex))
		likedProducts = append(likedProducts, p)
	}
	if len(likedVecs) == 0 {
		return nil, nil, core.NewDomainError(core.ModuleEngine, core.ErrorCodeInsufficientSignal,
			"engine: none of the liked products exist in the catalog")
	}

	query := vector.Mean(likedVecs)

	var dislikedVecs [][]float64
	for _, raw := range dislikedIDs {
		p, err := snap.Product(raw)
		if err != nil {
			continue
		}
		dislikedVecs = append(dislikedVecs, snap.EmbeddingRow(p.EmbeddingIndex))
	}
	if len(dislikedVecs) > 0 {
		query = vector.Axpy(query, -e.tuning.DislikeWeight, vector.Mean(dislikedVecs))
	}

	return vector.Normalize(query), likedProducts, nil
}

// cacheTaste 把派生口味向量写穿到可选缓存。尽力而为：缓存失败不影响请求。
func (e *Engine) cacheTaste(ctx context.Context, userID string, taste []float64) {
	if e.tasteCache == nil || userID == "" {
		return
	}
	data, err := json.Marshal(taste)
	if err != nil {
		return
	}
	_ = e.tasteCache.Set(ctx, TasteCacheKey(userID), data, e.tasteTTL)
}

// TasteCacheKey 返回派生口味向量在缓存里的 key。
func TasteCacheKey(rawUserID string) string {
	return "taste:" + idkit.Normalize(rawUserID)
}

// CachedTaste 读取之前写穿的派生口味向量；未配置缓存或 key 不存在时返回 NOT_FOUND。
func (e *Engine) CachedTaste(ctx context.Context, rawUserID string) ([]float64, error) {
	if e.tasteCache == nil {
		return nil, core.ErrStoreNotFound
	}
	data, err := e.tasteCache.Get(ctx, TasteCacheKey(rawUserID))
	if err != nil {
		return nil, err
	}
	var taste []float64
	if err := json.Unmarshal(data, &taste); err != nil {
		return nil, core.NewDomainError(core.ModuleEngine, core.ErrorCodeInternalError,
			"engine: corrupt cached taste vector: "+err.Error())
	}
	return taste, nil
}
