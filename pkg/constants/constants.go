package constants

const (
	CHANNEL_SIZE        = 100  // 通道大小
	PHOTO_MAX_PER_TRIBE = 10   // 每个部落相册照片上限，超出直接拒绝
	EMBED_SECTION_MAX   = 1024 // 平台单个内容区块的长度上限
	HISTORY_PAGE_SIZE   = 20   // 历史记录每页条数（最新在前）
	AUTOCOMPLETE_MAX    = 25   // 平台自动补全选项上限
	CACHE_TTL_MINUTES   = 30   // 目录/配置缓存过期时间（分钟）

	DEFAULT_CARD_COLOR = 3092790 // 卡片默认颜色（未指定时使用）

	REFRESH_TOKEN_EXPIRY_HOURS = 168 // Refresh Token 有效期（小时）
)

const (
	GLOBAL_GUILD_ID      = "0"            // 全局兜底层的 guild id（目录与配置共用）
	CONFIG_KEY_CARD_CHAN = "card_channel" // 卡片默认发布频道的配置键

	// 部落未设置 logo 时卡片缩略图使用的默认头像
	DEFAULT_LOGO_URL = "https://cdn.discordapp.com/embed/avatars/0.png"
)
