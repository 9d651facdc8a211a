package core

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 引擎内所有可预期失败都使用此类型，调用方按 Code 分支处理
//   - 边界层（HTTP/gRPC 等）负责把 Code 翻译为协议状态码，引擎不关心传输
//   - 绝不用默认值/零向量掩盖失败
type DomainError struct {
	Code    string // 错误代码（如 "USER_NOT_FOUND", "LOAD_FAILED"）
	Message string // 错误消息
	Module  string // 模块名称（如 "snapshot", "engine", "vector"）
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError 创建新的领域错误
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// GetDomainError 获取 DomainError，如果不是则返回 nil
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	if domainErr, ok := err.(*DomainError); ok {
		return domainErr
	}
	return nil
}

// IsDomainError 检查错误是否为 DomainError 类型
func IsDomainError(err error) bool {
	return GetDomainError(err) != nil
}

// 错误代码常量
const (
	ErrorCodeNotFound           = "NOT_FOUND"           // 资源不存在
	ErrorCodeUserNotFound       = "USER_NOT_FOUND"      // 用户没有口味向量
	ErrorCodeProductNotFound    = "PRODUCT_NOT_FOUND"   // 商品不存在
	ErrorCodeInsufficientSignal = "INSUFFICIENT_SIGNAL" // 喜欢列表为空，无法聚合口味
	ErrorCodeDimensionMismatch  = "DIMENSION_MISMATCH"  // 查询向量维度与矩阵不一致
	ErrorCodeLoadFailed         = "LOAD_FAILED"         // 快照加载失败 / 尚未加载
	ErrorCodeInvalidInput       = "INVALID_INPUT"       // 输入无效（越界的 k、非法价格区间等）
	ErrorCodeNotSupported       = "NOT_SUPPORTED"       // 操作不支持
	ErrorCodeInternalError      = "INTERNAL_ERROR"      // 内部错误
)

// 模块名称常量
const (
	ModuleSnapshot = "snapshot" // 快照（向量/商品目录）模块
	ModuleVector   = "vector"   // 向量检索模块
	ModuleEngine   = "engine"   // 推荐引擎门面
	ModuleFilter   = "filter"   // 过滤模块
	ModuleStore    = "store"    // 缓存存储模块
	ModuleConfig   = "config"   // 配置模块
)

func hasCode(err error, code string) bool {
	if err == nil {
		return false
	}
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == code
	}
	return false
}

// IsNotFound 检查错误是否为任一 NOT_FOUND 类错误
func IsNotFound(err error) bool {
	return hasCode(err, ErrorCodeNotFound) ||
		hasCode(err, ErrorCodeUserNotFound) ||
		hasCode(err, ErrorCodeProductNotFound)
}

// IsUserNotFound 检查错误是否为 USER_NOT_FOUND
func IsUserNotFound(err error) bool {
	return hasCode(err, ErrorCodeUserNotFound)
}

// IsProductNotFound 检查错误是否为 PRODUCT_NOT_FOUND
func IsProductNotFound(err error) bool {
	return hasCode(err, ErrorCodeProductNotFound)
}

// IsInsufficientSignal 检查错误是否为 INSUFFICIENT_SIGNAL
func IsInsufficientSignal(err error) bool {
	return hasCode(err, ErrorCodeInsufficientSignal)
}

// IsDimensionMismatch 检查错误是否为 DIMENSION_MISMATCH
func IsDimensionMismatch(err error) bool {
	return hasCode(err, ErrorCodeDimensionMismatch)
}

// IsLoadFailed 检查错误是否为 LOAD_FAILED
func IsLoadFailed(err error) bool {
	return hasCode(err, ErrorCodeLoadFailed)
}

// IsInvalidInput 检查错误是否为 INVALID_INPUT
func IsInvalidInput(err error) bool {
	return hasCode(err, ErrorCodeInvalidInput)
}

// IsNotSupported 检查错误是否为 NOT_SUPPORTED
func IsNotSupported(err error) bool {
	return hasCode(err, ErrorCodeNotSupported)
}
