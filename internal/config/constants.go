package config

// Lua schema field names and globals
const (
	luaGlobalSwissKnife = "swissknife"
	luaFieldCacheRoot   = "cache_root"
	luaFieldLogLevel    = "log_level"
	luaFieldSpeak       = "speak"
	luaFieldRate        = "rate"
	luaFieldVolume      = "volume"
	luaFieldNotify      = "notification"
	luaFieldIcon        = "icon"
	luaFieldTimeout     = "timeout"
)

// Defaults used when the config file leaves a value unset.
const (
	DefaultLogLevel            = "error"
	DefaultSpeakRate           = 0
	DefaultSpeakVolume         = 50
	DefaultNotificationIcon    = 77
	DefaultNotificationTimeout = 5000
)

// Value ranges accepted by the helper tool.
const (
	MinSpeakRate = -10
	MaxSpeakRate = 10
	MinVolume    = 0
	MaxVolume    = 100
)
