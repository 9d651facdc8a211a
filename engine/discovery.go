package engine

import (
	"context"
	"hash/fnv"
	"math/rand"

	"golang.org/x/sync/errgroup"

	"github.com/shopperos/tastekit/core"
	"github.com/shopperos/tastekit/pkg/idkit"
	"github.com/shopperos/tastekit/pkg/utils"
	"github.com/shopperos/tastekit/snapshot"
	"github.com/shopperos/tastekit/vector"
)

// DiscoveryRequest 是发现流的输入。UserID 可为空（匿名/冷启动）。
type DiscoveryRequest struct {
	UserID     string
	PerSection int // 每个栏目的数量，1..SectionMaxK，0 表示取 SectionDefaultK
}

// 栏目类型常量
const (
	SectionPersonalized = "personalized" // 口味 + 确定性噪声
	SectionStyle        = "style"        // 纯口味，与 personalized 去重
	SectionTrending     = "trending"     // 趋势榜
	SectionPopular      = "popular"      // 热门榜
)

// Section 是发现流中的一个独立排序栏目。
type Section struct {
	Title string
	Type  string
	Items []*core.Item
}

// DiscoveryResult 是发现流的输出。
type DiscoveryResult struct {
	Sections []Section
}

// DiscoveryFeed 返回分栏目的发现流。
//
// 有口味向量的用户得到四个栏目：扰动口味（"For You"）、纯口味
// （"In Your Style"，与前者去重）、趋势、热门；没有口味向量时只有后两个。
// 扰动是确定性的：种子取自 FNV(用户 ID, UTC 日期)，同一天同一用户
// 结果稳定，跨天自然变化，服务端不存任何状态。
func (e *Engine) DiscoveryFeed(ctx context.Context, req DiscoveryRequest) (*DiscoveryResult, error) {
	per := req.PerSection
	if per == 0 {
		per = e.tuning.SectionDefaultK
	}
	if per < 1 || per > e.tuning.SectionMaxK {
		return nil, invalidInput("per_section must be in [1,%d], got %d", e.tuning.SectionMaxK, per)
	}

	snap, err := e.current()
	if err != nil {
		return nil, err
	}

	personalized := req.UserID != "" && snap.HasTaste(req.UserID)

	var (
		forYou, style     []*core.Item
		trending, popular []*core.Item
	)

	// 栏目互相独立（personalized 对 style 的去重在同一 goroutine 内），并发组装
	g, _ := errgroup.WithContext(ctx)
	if personalized {
		g.Go(func() error {
			var err error
			forYou, style, err = e.tasteSections(snap, req.UserID, per)
			return err
		})
	}
	g.Go(func() error {
		trending = auxSection(snap, core.AuxTrending, per)
		return nil
	})
	g.Go(func() error {
		popular = auxSection(snap, core.AuxPopular, per)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var sections []Section
	if personalized {
		sections = append(sections,
			Section{Title: "For You", Type: SectionPersonalized, Items: forYou},
			Section{Title: "In Your Style", Type: SectionStyle, Items: style},
		)
	}
	sections = append(sections,
		Section{Title: "Trending", Type: SectionTrending, Items: trending},
		Section{Title: "Popular", Type: SectionPopular, Items: popular},
	)

	return &DiscoveryResult{Sections: sections}, nil
}

// tasteSections 组装两个口味栏目："For You"（扰动）与 "In Your Style"（纯口味去重）。
func (e *Engine) tasteSections(
	snap *snapshot.Snapshot,
	userID string,
	per int,
) (forYou, style []*core.Item, err error) {
	taste, err := snap.TasteVector(userID)
	if err != nil {
		return nil, nil, err
	}

	perturbed := e.perturb(taste, userID)
	hits, err := snap.Index().Search(perturbed, per)
	if err != nil {
		return nil, nil, err
	}
	forYou, err = hydrate(snap, hits, "taste_perturbed")
	if err != nil {
		return nil, nil, err
	}

	// 纯口味栏目：过采样一个栏目的量用于去重
	hits, err = snap.Index().Search(taste, per*2)
	if err != nil {
		return nil, nil, err
	}
	candidates, err := hydrate(snap, hits, "taste")
	if err != nil {
		return nil, nil, err
	}

	seen := make(map[string]bool, len(forYou))
	for _, it := range forYou {
		seen[it.ID] = true
	}
	for _, it := range candidates {
		if seen[it.ID] {
			continue
		}
		style = append(style, it)
		if len(style) >= per {
			break
		}
	}
	return forYou, style, nil
}

// perturb 对口味向量叠加确定性噪声并重新归一化。
// 种子 = FNV-64a(规范化用户 ID + '|' + UTC 日期)。
func (e *Engine) perturb(taste []float64, userID string) []float64 {
	h := fnv.New64a()
	h.Write([]byte(idkit.Normalize(userID)))
	h.Write([]byte{'|'})
	h.Write([]byte(e.now().UTC().Format("2006-01-02")))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	out := make([]float64, len(taste))
	for i, x := range taste {
		out[i] = x + rng.NormFloat64()*e.tuning.NoiseFactor
	}
	return vector.Normalize(out)
}

// auxSection 从辅助榜单组装栏目：保持榜单顺序，跳过已下架的 ID。
func auxSection(snap *snapshot.Snapshot, name string, per int) []*core.Item {
	var out []*core.Item
	for _, entry := range snap.Aux(name) {
		p, err := snap.Product(entry.ID)
		if err != nil {
			continue // 榜单可能含已下架商品
		}
		it := core.NewItem(p.ID)
		it.Score = entry.Score
		it.Product = p
		it.PutLabel(core.LabelRecallSource, utils.Label{Value: name, Source: "recall"})
		out = append(out, it)
		if len(out) >= per {
			break
		}
	}
	return out
}
