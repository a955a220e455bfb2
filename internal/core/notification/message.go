package notification

// Message is an email ready to be handed to a mail transport.
type Message struct {
	To       string
	From     string
	Subject  string
	TextBody string
	HTMLBody string
}
