package discord

// Friendly message constants for Discord responses
const (
	MsgSubscriptionNotFound = "👤 **No Subscription**\nThat member doesn't have an active subscription."
	MsgInvalidMonths        = "⚠️ **Invalid Duration**\nMonths must be between 1 and 10 per command."

	MsgGenericError = "❌ Something went wrong. Please try again later."
)

// Embed colors
const (
	ColorGreen  = 0x2ecc71
	ColorBlue   = 0x3498db
	ColorOrange = 0xe67e22
	ColorRed    = 0xe74c3c
)
