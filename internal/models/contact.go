package models

// Contact is a contact-form submission.
type Contact struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Subject    string `json:"subject"`
	Message    string `json:"message"`
	Newsletter bool   `json:"newsletter"`
}

func (c Contact) WithID(id int64) Contact {
	c.ID = id
	return c
}

func (c Contact) Clone() Contact { return c }
