package models

import "time"

// House is a supported-accommodation residence. Clients are optionally
// assigned to a house; the assignment is reassignable.
type House struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	AddressLine   string    `json:"addressLine"`
	Postcode      string    `json:"postcode"`
	Phone         string    `json:"phone,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

// Client is a person receiving support services. Every versioned note is
// owned by exactly one client; the client itself belongs to at most one house.
type Client struct {
	ID             int64     `json:"id"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	DateOfBirth    time.Time `json:"dateOfBirth"`
	SupportPlanRef string    `json:"supportPlanRef,omitempty"`
	HouseID        *int64    `json:"houseId,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	LastUpdatedAt  time.Time `json:"lastUpdatedAt"`
}
