package api

import (
	"context"
	"fmt"
	"net/url"

	"casedesk/internal/domain"
)

// GetDataPage fetches a named data source with query parameters and
// returns its raw records. Used for reference-field option resolution and
// ad-hoc lookups.
func (c *Client) GetDataPage(ctx context.Context, dataPageID string, params map[string]string) ([]map[string]any, error) {
	endpoint := "/data/" + url.PathEscape(dataPageID)
	if len(params) > 0 {
		q := url.Values{}
		for k, v := range params {
			q.Set(k, v)
		}
		endpoint += "?" + q.Encode()
	}
	var resp listResponse[map[string]any]
	if err := c.get(ctx, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("fetching data page %s: %w", dataPageID, err)
	}
	return resp.PxResults, nil
}

type customerDTO struct {
	CustomerID  string `json:"CustomerID"`
	FirstName   string `json:"FirstName"`
	LastName    string `json:"LastName"`
	FullName    string `json:"FullName"`
	Email       string `json:"Email"`
	Phone       string `json:"Phone"`
	DateOfBirth string `json:"DateOfBirth"`
	Segment     string `json:"Segment"`
	Status      string `json:"Status"`
}

func (d customerDTO) toDomain() domain.Customer {
	return domain.Customer(d)
}

// SearchCustomers runs the customer search data page.
func (c *Client) SearchCustomers(ctx context.Context, query string) ([]domain.Customer, error) {
	endpoint := "/data/D_CustomerSearch?" + url.Values{"SearchText": {query}}.Encode()
	var resp listResponse[customerDTO]
	if err := c.get(ctx, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("searching customers: %w", err)
	}
	customers := make([]domain.Customer, 0, len(resp.PxResults))
	for _, dto := range resp.PxResults {
		customers = append(customers, dto.toDomain())
	}
	return customers, nil
}

type accountDTO struct {
	AccountID        string  `json:"AccountID"`
	AccountNumber    string  `json:"AccountNumber"`
	AccountType      string  `json:"AccountType"`
	AccountName      string  `json:"AccountName"`
	Balance          float64 `json:"Balance"`
	AvailableBalance float64 `json:"AvailableBalance"`
	Currency         string  `json:"Currency"`
	Status           string  `json:"Status"`
	OpenDate         string  `json:"OpenDate"`
	CustomerID       string  `json:"CustomerID"`
}

// AccountList returns a customer's accounts.
func (c *Client) AccountList(ctx context.Context, customerID string) ([]domain.Account, error) {
	endpoint := "/data/D_AccountList?" + url.Values{"CustomerID": {customerID}}.Encode()
	var resp listResponse[accountDTO]
	if err := c.get(ctx, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("fetching accounts: %w", err)
	}
	accounts := make([]domain.Account, 0, len(resp.PxResults))
	for _, dto := range resp.PxResults {
		accounts = append(accounts, domain.Account(dto))
	}
	return accounts, nil
}

type transactionDTO struct {
	TransactionID  string  `json:"TransactionID"`
	AccountID      string  `json:"AccountID"`
	Date           string  `json:"Date"`
	Description    string  `json:"Description"`
	Amount         float64 `json:"Amount"`
	RunningBalance float64 `json:"RunningBalance"`
	Type           string  `json:"Type"`
	Category       string  `json:"Category"`
	Reference      string  `json:"Reference"`
	Status         string  `json:"Status"`
}

// TransactionHistory returns an account's transactions, optionally bounded
// by start/end dates.
func (c *Client) TransactionHistory(ctx context.Context, accountID, startDate, endDate string) ([]domain.Transaction, error) {
	q := url.Values{"AccountID": {accountID}}
	if startDate != "" {
		q.Set("StartDate", startDate)
	}
	if endDate != "" {
		q.Set("EndDate", endDate)
	}
	var resp listResponse[transactionDTO]
	if err := c.get(ctx, "/data/D_TransactionHistory?"+q.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("fetching transactions: %w", err)
	}
	txns := make([]domain.Transaction, 0, len(resp.PxResults))
	for _, dto := range resp.PxResults {
		txns = append(txns, domain.Transaction(dto))
	}
	return txns, nil
}
