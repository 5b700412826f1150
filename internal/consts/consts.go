package consts

const (
	// RequestId 请求id名称
	RequestId = "request_id"
	UserID    = "user_id"
	// AccountCtx EA鉴权中间件解析出的账户实体
	AccountCtx  = "account_ctx"
	JWTTokenCtx = "token_ctx"

	// ApiKeyHeader EA轮询使用的账户密钥请求头
	ApiKeyHeader = "X-API-Key"
	// ApiKeyQuery 兼容只支持query传参的EA客户端
	ApiKeyQuery = "api_key"

	DateLayout   = "2006-01-02"
	TimeLayout   = "2006-01-02 15:04:05"
	TimeLayoutMs = "2006-01-02 15:04:05.000"

	// SecretLength webhook secret和账户api key的长度
	SecretLength = 64
)
