package entities

// Message is one inbound chat turn, whatever channel it arrived on.
type Message struct {
	From     string
	Content  string
	Platform string // e.g., "web", "telegram", "cli"
}

// Response is what the resolution pipeline hands back for a Message.
type Response struct {
	Content string
	Stage   string
}
