package handler

//go:generate go run github.com/a-h/templ/cmd/templ@v0.3.977 generate -f status_page.templ

// StatusView is the data shown on the status page.
type StatusView struct {
	ServerID        string
	TokenConfigured bool
	BotRunning      bool
}

// botStatus returns the badge label and whether the bot is healthy.
func (v StatusView) botStatus() (string, bool) {
	switch {
	case v.TokenConfigured && v.BotRunning:
		return "Online", true
	case v.TokenConfigured:
		return "Offline", false
	default:
		return "Setup required", false
	}
}
