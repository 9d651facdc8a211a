// Package config 提供引擎的 YAML 配置加载与默认值。
//
// 设计要点：所有调参常量（过采样倍数、不喜欢权重、噪声系数、校准上下界）
// 都在这里命名并带文档，禁止在操作实现里内联魔法数字。
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/shopperos/tastekit/core"
)

// Tuning 是推荐操作的调参常量集合。
type Tuning struct {
	// OverSampleFactor 个性化目录的过采样倍数：类目/价格过滤会淘汰候选，
	// 先按 k*factor 打分再过滤截回 k，避免过滤后不足。
	OverSampleFactor int `yaml:"over_sample_factor"`

	// GiftOverSampleFactor 礼物建议的过采样倍数。礼物场景过滤更重
	// （排除种子、排除类目、价格、多样性去重），取更大倍数。
	GiftOverSampleFactor int `yaml:"gift_over_sample_factor"`

	// DislikeWeight 聚合口味时"不喜欢均值"的扣减权重：
	// query = mean(liked) - DislikeWeight * mean(disliked)。
	// 取小数而非 1.0，只把查询推离不喜欢的风格，不让它主导方向。
	DislikeWeight float64 `yaml:"dislike_weight"`

	// NoiseFactor 发现流"为你推荐"的扰动强度：对口味向量每个分量
	// 叠加 NoiseFactor 尺度的确定性噪声后重新归一化，
	// 让重复请求跨天产生变化而无需任何服务端状态。
	NoiseFactor float64 `yaml:"noise_factor"`

	// CatalogMaxK 个性化目录单次请求的数量上界。
	CatalogMaxK int `yaml:"catalog_max_k"`

	// AlternativesMaxK 替代品单次请求的数量上界。
	AlternativesMaxK int `yaml:"alternatives_max_k"`

	// GiftMaxK 礼物建议单次请求的数量上界。
	GiftMaxK int `yaml:"gift_max_k"`

	// SectionMaxK 发现流单个栏目的数量上界。
	SectionMaxK int `yaml:"section_max_k"`

	// SectionDefaultK 发现流单个栏目的默认数量（请求不带 per_section 时生效）。
	SectionDefaultK int `yaml:"section_default_k"`

	// CalibrationMin / CalibrationMax 校准选品数量的上下界，两端都强制。
	CalibrationMin int `yaml:"calibration_min"`
	CalibrationMax int `yaml:"calibration_max"`

	// CalibrationCategories 分层抽样覆盖的类目数（按商品数取前 N 个类目）。
	CalibrationCategories int `yaml:"calibration_categories"`

	// TasteRecommendMax 口味计算附带推荐的数量上界。
	TasteRecommendMax int `yaml:"taste_recommend_max"`

	// TasteRecommendDefault 口味计算附带推荐的默认数量（请求不带 recommend_k 时生效）。
	TasteRecommendDefault int `yaml:"taste_recommend_default"`
}

// DefaultTuning 返回默认调参。
func DefaultTuning() Tuning {
	return Tuning{
		OverSampleFactor:      3,
		GiftOverSampleFactor:  5,
		DislikeWeight:         0.3,
		NoiseFactor:           0.1,
		CatalogMaxK:           100,
		AlternativesMaxK:      50,
		GiftMaxK:              50,
		SectionMaxK:           20,
		SectionDefaultK:       5,
		CalibrationMin:        4,
		CalibrationMax:        50,
		CalibrationCategories: 10,
		TasteRecommendMax:     50,
		TasteRecommendDefault: 10,
	}
}

// Cache 是派生口味向量写穿缓存的可选配置。
type Cache struct {
	// Backend: "" / "none"（禁用）、"memory"、"redis"
	Backend string `yaml:"backend"`
	Addr    string `yaml:"addr"` // redis 地址
	DB      int    `yaml:"db"`   // redis 库号
	TTL     int    `yaml:"ttl"`  // 缓存秒数，0 表示不过期
}

// Config 是引擎的完整配置。
type Config struct {
	// DataDir 快照制品所在目录（products.json 等五个文件）。
	DataDir string `yaml:"data_dir"`

	Tuning Tuning `yaml:"tuning"`
	Cache  Cache  `yaml:"cache"`
}

// Default 返回带默认值的配置（DataDir 为空，必须显式给出）。
func Default() *Config {
	return &Config{Tuning: DefaultTuning()}
}

// LoadFromYAML 从 YAML 文件加载配置，缺省字段用默认值补齐。
func LoadFromYAML(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, core.NewDomainError(core.ModuleConfig, core.ErrorCodeLoadFailed,
			fmt.Sprintf("config: read file: %v", err))
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, core.NewDomainError(core.ModuleConfig, core.ErrorCodeLoadFailed,
			fmt.Sprintf("config: parse yaml: %v", err))
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyDefaults 对零值字段补默认值（yaml 里显式写 0 与缺省同义）。
func (c *Config) applyDefaults() {
	def := DefaultTuning()
	t := &c.Tuning
	if t.OverSampleFactor <= 0 {
		t.OverSampleFactor = def.OverSampleFactor
	}
	if t.GiftOverSampleFactor <= 0 {
		t.GiftOverSampleFactor = def.GiftOverSampleFactor
	}
	if t.DislikeWeight <= 0 {
		t.DislikeWeight = def.DislikeWeight
	}
	if t.NoiseFactor <= 0 {
		t.NoiseFactor = def.NoiseFactor
	}
	if t.CatalogMaxK <= 0 {
		t.CatalogMaxK = def.CatalogMaxK
	}
	if t.AlternativesMaxK <= 0 {
		t.AlternativesMaxK = def.AlternativesMaxK
	}
	if t.GiftMaxK <= 0 {
		t.GiftMaxK = def.GiftMaxK
	}
	if t.SectionMaxK <= 0 {
		t.SectionMaxK = def.SectionMaxK
	}
	if t.SectionDefaultK <= 0 {
		t.SectionDefaultK = def.SectionDefaultK
	}
	if t.CalibrationMin <= 0 {
		t.CalibrationMin = def.CalibrationMin
	}
	if t.CalibrationMax <= 0 {
		t.CalibrationMax = def.CalibrationMax
	}
	if t.CalibrationCategories <= 0 {
		t.CalibrationCategories = def.CalibrationCategories
	}
	if t.TasteRecommendMax <= 0 {
		t.TasteRecommendMax = def.TasteRecommendMax
	}
	if t.TasteRecommendDefault <= 0 {
		t.TasteRecommendDefault = def.TasteRecommendDefault
	}
}

// Validate 校验配置自洽。
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return core.NewDomainError(core.ModuleConfig, core.ErrorCodeInvalidInput,
			"config: data_dir is required")
	}
	if c.Tuning.CalibrationMin > c.Tuning.CalibrationMax {
		return core.NewDomainError(core.ModuleConfig, core.ErrorCodeInvalidInput,
			fmt.Sprintf("config: calibration_min %d > calibration_max %d",
				c.Tuning.CalibrationMin, c.Tuning.CalibrationMax))
	}
	if c.Tuning.SectionDefaultK > c.Tuning.SectionMaxK {
		return core.NewDomainError(core.ModuleConfig, core.ErrorCodeInvalidInput,
			fmt.Sprintf("config: section_default_k %d > section_max_k %d",
				c.Tuning.SectionDefaultK, c.Tuning.SectionMaxK))
	}
	if c.Tuning.TasteRecommendDefault > c.Tuning.TasteRecommendMax {
		return core.NewDomainError(core.ModuleConfig, core.ErrorCodeInvalidInput,
			fmt.Sprintf("config: taste_recommend_default %d > taste_recommend_max %d",
				c.Tuning.TasteRecommendDefault, c.Tuning.TasteRecommendMax))
	}
	if c.Tuning.DislikeWeight >= 1.0 {
		return core.NewDomainError(core.ModuleConfig, core.ErrorCodeInvalidInput,
			fmt.Sprintf("config: dislike_weight %v must be a fraction below 1.0", c.Tuning.DislikeWeight))
	}
	switch c.Cache.Backend {
	case "", "none", "memory", "redis":
	default:
		return core.NewDomainError(core.ModuleConfig, core.ErrorCodeInvalidInput,
			"config: unknown cache backend: "+c.Cache.Backend)
	}
	if c.Cache.Backend == "redis" && c.Cache.Addr == "" {
		return core.NewDomainError(core.ModuleConfig, core.ErrorCodeInvalidInput,
			"config: cache backend redis requires addr")
	}
	return nil
}
