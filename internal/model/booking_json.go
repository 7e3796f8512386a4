package model

import "encoding/json"

// MarshalJSON renders stay dates as plain calendar dates.
func (b Booking) MarshalJSON() ([]byte, error) {
	type alias Booking
	return json.Marshal(struct {
		alias
		CheckInDate  string `json:"check_in_date"`
		CheckOutDate string `json:"check_out_date"`
	}{
		alias:        alias(b),
		CheckInDate:  b.CheckInDate.Format(DateLayout),
		CheckOutDate: b.CheckOutDate.Format(DateLayout),
	})
}

// MarshalJSON renders the payment date as a plain calendar date.
func (p Payment) MarshalJSON() ([]byte, error) {
	type alias Payment
	return json.Marshal(struct {
		alias
		PaymentDate string `json:"payment_date"`
	}{
		alias:       alias(p),
		PaymentDate: p.PaymentDate.Format(DateLayout),
	})
}
