package lifecycle

// Status answers liveness questions for the HTTP status surface.
type Status struct {
	runner          *Runner
	tokenConfigured bool
}

// NewStatus creates a Status over runner.
func NewStatus(runner *Runner, tokenConfigured bool) *Status {
	return &Status{runner: runner, tokenConfigured: tokenConfigured}
}

// TokenConfigured reports whether a chat token was supplied.
func (s *Status) TokenConfigured() bool {
	return s.tokenConfigured
}

// BotRunning reports whether the bot task is currently running.
func (s *Status) BotRunning() bool {
	return s.runner != nil && s.runner.Running(TaskBot)
}
