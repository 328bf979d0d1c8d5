package domain

// Customer is a business-lookup record from the customer data page.
type Customer struct {
	CustomerID  string
	FirstName   string
	LastName    string
	FullName    string
	Email       string
	Phone       string
	DateOfBirth string
	Segment     string
	Status      string
}

// Account is a customer account record.
type Account struct {
	AccountID        string
	AccountNumber    string
	AccountType      string
	AccountName      string
	Balance          float64
	AvailableBalance float64
	Currency         string
	Status           string
	OpenDate         string
	CustomerID       string
}

// Transaction is one account transaction record.
type Transaction struct {
	TransactionID  string
	AccountID      string
	Date           string
	Description    string
	Amount         float64
	RunningBalance float64
	Type           string
	Category       string
	Reference      string
	Status         string
}
