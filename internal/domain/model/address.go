package model

// Address is the delivery address supplied by the catalog collaborator.
// The storefront only needs to know one exists before checkout commits.
type Address struct {
	UserID        int64
	FirstName     string
	LastName      string
	StreetAddress string
	City          string
	State         string
	Country       string
	Pincode       string
	PhoneNumber   string
	Email         string
}
