package shipping

// Countries the storefront ships to.
var Countries = []string{"China", "India", "United Kingdom", "USA"}

type Address struct {
	City    string `json:"city" validate:"required"`
	Country string `json:"country" validate:"required,oneof=China India 'United Kingdom' USA"`
}
