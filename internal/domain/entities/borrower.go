package entities

// CreateBorrowerInput represents input for creating a borrower
// profile. Cvv and AtmPin are plaintext in transit only; they are
// encrypted into the borrower's CardDetail record and never stored on
// the profile.
type CreateBorrowerInput struct {
	Name     string `json:"name" binding:"required,max=50"`
	Username string `json:"username" binding:"required,min=3"`
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
	DOB      string `json:"dob"`
	Address  string `json:"address"`
	Referrer string `json:"referrer"`

	CardNumber string `json:"cardNumber"`
	CardName   string `json:"cardName"`
	ValidTil   string `json:"validTil"`
	Cvv        string `json:"cvv"`
	AtmPin     string `json:"atmPin"`
}

// UpdateBorrowerInput represents input for updating a borrower
// profile. Empty fields are left untouched.
type UpdateBorrowerInput struct {
	Name    string `json:"name" binding:"omitempty,max=50"`
	Email   string `json:"email" binding:"omitempty,email"`
	Phone   string `json:"phone"`
	DOB     string `json:"dob"`
	Address string `json:"address"`
	Status  string `json:"status" binding:"omitempty,oneof=Active Inactive"`

	CardNumber string `json:"cardNumber"`
	CardName   string `json:"cardName"`
	ValidTil   string `json:"validTil"`
	Cvv        string `json:"cvv"`
	AtmPin     string `json:"atmPin"`
}
