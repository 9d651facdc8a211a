// Package idkit 提供商品/用户 ID 的唯一规范化实现。
//
// 所有做 ID 查找或比较的模块必须经过这里，禁止散落各处各写一份
// 去前导零逻辑——两处独立实现就是一类一致性 bug。
package idkit

import "strconv"

// Normalize 把原始 ID 规范化：去掉前导零。
// 全零 ID 规范化为 "0"，绝不产生空串。纯函数，幂等，无失败路径。
func Normalize(raw string) string {
	i := 0
	for i < len(raw)-1 && raw[i] == '0' {
		i++
	}
	return raw[i:]
}

// NormalizeInt 把数值型 ID 规范化为字符串形式。
// 数值本身不含前导零，转字符串即是规范形式。
func NormalizeInt(raw int64) string {
	return strconv.FormatInt(raw, 10)
}

// NormalizeAll 批量规范化，保持输入顺序。
func NormalizeAll(raw []string) []string {
	if raw == nil {
		return nil
	}
	out := make([]string, len(raw))
	for i, r := range raw {
		out[i] = Normalize(r)
	}
	return out
}
