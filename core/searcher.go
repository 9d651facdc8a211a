package core

// Searcher 是向量检索的领域接口：所有排序操作共享的唯一相似度原语。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（vector）实现
//   - 相似度约定为点积；向量在构建时做过一次 L2 归一化，等价于余弦相似度
//   - 暴力扫描 O(n·d) 对几万量级商品足够；更大规模换近似索引（HNSW 等）
//     实现同一接口即可，调用方不感知
//
// 实现：
//   - vector.Index 实现此接口（内存暴力检索）
type Searcher interface {
	// Search 返回与 query 最相似的 topK 行，按相似度降序；
	// 相同分数按行号升序，保证结果确定性。
	// query 维度与矩阵不一致时返回 DIMENSION_MISMATCH。
	Search(query []float64, topK int) ([]Hit, error)

	// Dimension 返回向量维度 d
	Dimension() int

	// Rows 返回矩阵行数（商品数）
	Rows() int
}

// Hit 是单个检索结果：矩阵行号 + 相似度分数。
type Hit struct {
	Row   int
	Score float64
}
