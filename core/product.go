package core

// Product 是商品目录中的一条记录，加载完成后不可变。
// ID 必须是规范化后的形式（见 pkg/idkit），所有查找与比较只认规范化 ID。
// EmbeddingIndex 指向嵌入矩阵中的行号，加载时校验唯一且在 [0, rows) 内。
type Product struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Category       string  `json:"category"`
	Color          string  `json:"color,omitempty"`
	Brand          string  `json:"brand,omitempty"`
	Price          float64 `json:"price"`
	ImageURL       string  `json:"image_url,omitempty"`
	ProductURL     string  `json:"product_url,omitempty"`
	EmbeddingIndex int     `json:"embedding_index"`
}

// AuxEntry 是辅助榜单（热门/趋势）中的一项：商品 ID + 可选分数。
type AuxEntry struct {
	ID    string  `json:"id"`
	Score float64 `json:"score,omitempty"`
}

// 辅助榜单名称常量
const (
	AuxPopular  = "popular"  // 热门榜
	AuxTrending = "trending" // 趋势榜
)
