package document

// ValidityDays is how long an estimate stays valid after it is issued. The
// term is fixed for every issuer.
const ValidityDays = 30

// Company holds the issuer details printed on every document.
type Company struct {
	Name          string
	AddressLines  []string
	Phone         string
	Email         string
	Website       string
	LogoURL       string
	BankName      string
	AccountHolder string
	IBAN          string
	SWIFT         string
	// Currency is appended to every amount, e.g. "€" or "EUR".
	Currency string
}

func (c Company) currency() string {
	if c.Currency == "" {
		return "€"
	}
	return c.Currency
}
