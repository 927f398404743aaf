package domain

import "errors"

var ErrIncompleteAddress = errors.New("all address fields are required")

type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
}

func (a Address) Validate() error {
	if a.Street == "" || a.City == "" || a.State == "" || a.ZipCode == "" {
		return ErrIncompleteAddress
	}
	return nil
}
