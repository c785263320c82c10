package bot

// Telegram bot commands. Callback actions live in the keyboard package
// next to their encoding.
const (
	CommandStart       = "/start"
	CommandLanguage    = "/language"
	CommandSubscribe   = "/subscribe"
	CommandCancel      = "/cancel"
	CommandHelp        = "/help"
	CommandSubscribers = "/subscribers"
)
