package model

import "time"

type Customer struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	RegisteredAt  time.Time `json:"registered_at"`
	Address       string    `json:"address"`
	City          string    `json:"city"`
	State         string    `json:"state"`
	PostalCode    string    `json:"postal_code"`
	Phone         string    `json:"phone"`
	AccountCredit float64   `json:"account_credit"`
}
