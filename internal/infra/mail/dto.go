package mail

type PurchaseEmailData struct {
	Name        string
	ProductName string
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}
