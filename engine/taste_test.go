package engine

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/shopperos/tastekit/config"
	"github.com/shopperos/tastekit/core"
	"github.com/shopperos/tastekit/store"
)

func TestTasteFromCalibration(t *testing.T) {
	e := newTestEngine(t)
	res, err := e.TasteFromCalibration(context.Background(), TasteRequest{LikedIDs: []string{"1"}})
	if err != nil {
		t.Fatalf("TasteFromCalibration: %v", err)
	}

	// 单件喜欢：口味就是该商品的归一化嵌入
	if math.Abs(res.TasteVector[0]-1) > 1e-9 || math.Abs(res.TasteVector[1]) > 1e-9 {
		t.Errorf("TasteVector = %v, want [1 0]", res.TasteVector)
	}

	// 推荐排除所有滑过的商品
	for _, it := range res.Recommendations {
		if it.ID == "1" {
			t.Error("recommendations contain a swiped product")
		}
	}
	if len(res.Recommendations) == 0 {
		t.Error("no recommendations returned")
	}
}

func TestTasteFromCalibrationDislikeShiftsQuery(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	plain, err := e.TasteFromCalibration(ctx, TasteRequest{LikedIDs: []string{"1"}})
	if err != nil {
		t.Fatalf("TasteFromCalibration: %v", err)
	}
	shifted, err := e.TasteFromCalibration(ctx, TasteRequest{
		LikedIDs:    []string{"1"},
		DislikedIDs: []string{"2"},
	})
	if err != nil {
		t.Fatalf("TasteFromCalibration: %v", err)
	}

	// 不喜欢 [0,1] 方向的商品 2：第二维被压为负
	if shifted.TasteVector[1] >= plain.TasteVector[1] {
		t.Errorf("dislike did not shift taste: %v vs %v", shifted.TasteVector, plain.TasteVector)
	}
	n := math.Hypot(shifted.TasteVector[0], shifted.TasteVector[1])
	if math.Abs(n-1) > 1e-9 {
		t.Errorf("shifted taste not normalized: |v| = %v", n)
	}
	for _, it := range shifted.Recommendations {
		if it.ID == "2" {
			t.Error("recommendations contain a disliked product")
		}
	}
}

func TestTasteFromCalibrationInsufficientSignal(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	if _, err := e.TasteFromCalibration(ctx, TasteRequest{}); !core.IsInsufficientSignal(err) {
		t.Errorf("empty liked: got %v, want INSUFFICIENT_SIGNAL", err)
	}
	if _, err := e.TasteFromCalibration(ctx, TasteRequest{LikedIDs: []string{"999"}}); !core.IsInsufficientSignal(err) {
		t.Errorf("all-unknown liked: got %v, want INSUFFICIENT_SIGNAL", err)
	}
}

func TestTasteFromCalibrationRecommendKBounds(t *testing.T) {
	e := newTestEngine(t)
	for _, k := range []int{-1, 51} {
		_, err := e.TasteFromCalibration(context.Background(), TasteRequest{
			LikedIDs:   []string{"1"},
			RecommendK: k,
		})
		if !core.IsInvalidInput(err) {
			t.Errorf("recommend_k=%d: got %v, want INVALID_INPUT", k, err)
		}
	}
}

func TestTasteFromCalibrationDefaultKReportedOnBoundsError(t *testing.T) {
	// 上界被调低到默认值以下：缺省补出的 k=10 越界，错误里必须报 10 而非请求里的 0
	tuning := config.DefaultTuning()
	tuning.TasteRecommendMax = 5
	e := newTestEngine(t, WithTuning(tuning))

	_, err := e.TasteFromCalibration(context.Background(), TasteRequest{LikedIDs: []string{"1"}})
	if !core.IsInvalidInput(err) {
		t.Fatalf("got %v, want INVALID_INPUT", err)
	}
	if !strings.Contains(err.Error(), "got 10") {
		t.Errorf("error %q does not report the effective k", err.Error())
	}
}

func TestTasteCacheWriteThrough(t *testing.T) {
	cache := store.NewMemoryStore()
	defer cache.Close()

	e := newTestEngine(t, WithTasteCache(cache, 60))
	ctx := context.Background()

	if _, err := e.TasteFromCalibration(ctx, TasteRequest{UserID: "007", LikedIDs: []string{"1"}}); err != nil {
		t.Fatalf("TasteFromCalibration: %v", err)
	}

	// 缓存 key 用规范化用户 ID，任意原始形式都能读回
	got, err := e.CachedTaste(ctx, "7")
	if err != nil {
		t.Fatalf("CachedTaste: %v", err)
	}
	if math.Abs(got[0]-1) > 1e-9 || math.Abs(got[1]) > 1e-9 {
		t.Errorf("CachedTaste = %v, want [1 0]", got)
	}

	if _, err := cache.Get(ctx, TasteCacheKey("007")); err != nil {
		t.Errorf("raw cache lookup failed: %v", err)
	}
}

func TestTasteCacheDisabled(t *testing.T) {
	e := newTestEngine(t)
	if _, err := e.CachedTaste(context.Background(), "42"); !core.IsStoreNotFound(err) {
		t.Errorf("got %v, want store not-found", err)
	}
}

func TestTasteCacheAnonymousNotCached(t *testing.T) {
	cache := store.NewMemoryStore()
	defer cache.Close()

	e := newTestEngine(t, WithTasteCache(cache, 60))
	ctx := context.Background()

	if _, err := e.TasteFromCalibration(ctx, TasteRequest{LikedIDs: []string{"1"}}); err != nil {
		t.Fatalf("TasteFromCalibration: %v", err)
	}
	if _, err := cache.Get(ctx, TasteCacheKey("")); !core.IsStoreNotFound(err) {
		t.Errorf("anonymous request wrote to cache: %v", err)
	}
}
