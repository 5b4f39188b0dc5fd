package cakto

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type Order struct {
	ID       string   `json:"id"`
	Status   string   `json:"status"`
	Amount   float64  `json:"amount"`
	Customer Customer `json:"customer"`
	Product  struct {
		Name string `json:"name"`
	} `json:"product"`
	PaidAt string `json:"paidAt"`
}
