package domain

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type TrainingAssignedMailData struct {
	FullName string `json:"fullName"`
	Topic    string `json:"topic"`
	Venue    string `json:"venue"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Trainer  string `json:"trainer"`
}
