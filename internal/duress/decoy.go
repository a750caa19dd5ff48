package duress

// Activity is one line of the decoy activity feed.
type Activity struct {
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

// DecoyView is the fixed fake wallet shown while Shadow Mode is active.
type DecoyView struct {
	Balance  float64    `json:"balance"`
	Currency string     `json:"currency"`
	Activity []Activity `json:"activity"`
}

// Decoy returns the decoy view. It never reflects real balances.
func Decoy() DecoyView {
	return DecoyView{
		Balance:  142.37,
		Currency: "USD",
		Activity: []Activity{
			{Date: "2024-01-15", Description: "Coffee Shop", Amount: -4.50},
			{Date: "2024-01-14", Description: "Grocery Store", Amount: -67.23},
			{Date: "2024-01-12", Description: "Payroll Deposit", Amount: 212.10},
		},
	}
}
