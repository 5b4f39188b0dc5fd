package entity

// Plan é uma oferta do funil e a URL de checkout dela em um provedor.
type Plan struct {
	Code        string
	Provider    CheckoutSource
	CheckoutURL string
}
