package entity

// Patient as embedded in appointments or fetched by token.
type Patient struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Address  string `json:"address,omitempty"`
	Password string `json:"password,omitempty"`
}
