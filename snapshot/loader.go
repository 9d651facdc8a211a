package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/shopperos/tastekit/core"
	"github.com/shopperos/tastekit/pkg/idkit"
	"github.com/shopperos/tastekit/vector"
)

// 快照目录中的固定文件名。五个制品缺一不可。
const (
	FileProducts  = "products.json"
	FileEmbedding = "embeddings.json"
	FileTastes    = "taste_vectors.json"
	FilePopular   = "popular.json"
	FileTrending  = "trending.json"
)

// embeddingFile 是 embeddings.json 的线格式：维度 + 行主序矩阵。
type embeddingFile struct {
	Dimension int         `json:"dimension"`
	Vectors   [][]float64 `json:"vectors"`
}

func loadFailed(format string, args ...any) *core.DomainError {
	return core.NewDomainError(core.ModuleSnapshot, core.ErrorCodeLoadFailed,
		fmt.Sprintf("snapshot: "+format, args...))
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return loadFailed("read %s: %v", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return loadFailed("parse %s: %v", filepath.Base(path), err)
	}
	return nil
}

// Load 从目录加载一份完整快照。全有或全无：任何制品缺失、损坏或
// 维度不一致都只返回错误，绝不交出半成品。
func Load(dir string) (*Snapshot, error) {
	var (
		records  []core.Product
		embs     embeddingFile
		tastes   map[string][]float64
		popular  []core.AuxEntry
		trending []core.AuxEntry
	)

	// 五个制品互相独立，并发读
	g, _ := errgroup.WithContext(context.Background())
	g.Go(func() error { return readJSON(filepath.Join(dir, FileProducts), &records) })
	g.Go(func() error { return readJSON(filepath.Join(dir, FileEmbedding), &embs) })
	g.Go(func() error { return readJSON(filepath.Join(dir, FileTastes), &tastes) })
	g.Go(func() error { return readJSON(filepath.Join(dir, FilePopular), &popular) })
	g.Go(func() error { return readJSON(filepath.Join(dir, FileTrending), &trending) })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return build(records, embs, tastes, popular, trending)
}

// build 组装并校验快照。所有一致性不变量集中在这里检查。
func build(
	records []core.Product,
	embs embeddingFile,
	tastes map[string][]float64,
	popular, trending []core.AuxEntry,
) (*Snapshot, error) {
	if embs.Dimension <= 0 {
		return nil, loadFailed("%s: dimension must be positive, got %d", FileEmbedding, embs.Dimension)
	}
	if len(records) == 0 {
		return nil, loadFailed("%s: empty catalog", FileProducts)
	}
	if len(records) != len(embs.Vectors) {
		return nil, loadFailed("catalog has %d products but matrix has %d rows",
			len(records), len(embs.Vectors))
	}

	index, err := vector.NewIndex(embs.Vectors, embs.Dimension)
	if err != nil {
		return nil, loadFailed("build index: %v", err)
	}

	products := make(map[string]*core.Product, len(records))
	byRow := make([]*core.Product, len(records))
	for i := range records {
		p := records[i] // 拷贝，快照独占自己的内存
		p.ID = idkit.Normalize(p.ID)
		if p.ID == "" {
			return nil, loadFailed("%s: record %d has empty id", FileProducts, i)
		}
		if _, dup := products[p.ID]; dup {
			return nil, loadFailed("%s: duplicate product id after normalization: %s", FileProducts, p.ID)
		}
		if p.EmbeddingIndex < 0 || p.EmbeddingIndex >= len(records) {
			return nil, loadFailed("product %s: embedding_index %d out of range [0,%d)",
				p.ID, p.EmbeddingIndex, len(records))
		}
		if byRow[p.EmbeddingIndex] != nil {
			return nil, loadFailed("products %s and %s share embedding_index %d",
				byRow[p.EmbeddingIndex].ID, p.ID, p.EmbeddingIndex)
		}
		if p.Price < 0 || math.IsNaN(p.Price) || math.IsInf(p.Price, 0) {
			return nil, loadFailed("product %s: invalid price %v", p.ID, p.Price)
		}
		products[p.ID] = &p
		byRow[p.EmbeddingIndex] = &p
	}

	normTastes := make(map[string][]float64, len(tastes))
	for rawID, v := range tastes {
		uid := idkit.Normalize(rawID)
		if uid == "" {
			return nil, loadFailed("%s: empty user id", FileTastes)
		}
		if len(v) != embs.Dimension {
			return nil, loadFailed("%s: user %s has %d dims, want %d",
				FileTastes, uid, len(v), embs.Dimension)
		}
		if _, dup := normTastes[uid]; dup {
			return nil, loadFailed("%s: duplicate user id after normalization: %s", FileTastes, uid)
		}
		normTastes[uid] = vector.Normalize(v)
	}

	aux := map[string][]core.AuxEntry{
		core.AuxPopular:  normalizeAux(popular),
		core.AuxTrending: normalizeAux(trending),
	}

	return &Snapshot{
		products: products,
		byRow:    byRow,
		index:    index,
		tastes:   normTastes,
		aux:      aux,
	}, nil
}

// normalizeAux 规范化榜单里的商品 ID。榜单是离线预计算的，可能含有
// 已下架的 ID，这里不校验存在性，由服务路径跳过查不到的条目。
func normalizeAux(entries []core.AuxEntry) []core.AuxEntry {
	out := make([]core.AuxEntry, len(entries))
	for i, e := range entries {
		out[i] = core.AuxEntry{ID: idkit.Normalize(e.ID), Score: e.Score}
	}
	return out
}
