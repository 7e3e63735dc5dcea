package styles

// Nerd Font icons used by the panel.
const (
	IconCheckList = " "
	IconStar      = "" // 
	IconCircle    = "" // 
	IconCheck     = "" // 
	IconRefresh   = "" // 
)

// Notification icons.
const (
	IconNotifyInfo    = "" // 
	IconNotifyWarning = "" // 
	IconNotifyError   = "" // 
)
