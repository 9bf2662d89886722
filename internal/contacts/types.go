package contacts

// EmailAddress is a name/address pair.
type EmailAddress struct {
	Name    string `json:"name,omitempty"`
	Address string `json:"address"`
}

// Contact represents a personal contact.
type Contact struct {
	// ID is the unique identifier for the contact
	ID string `json:"id"`

	// DisplayName is the contact's display name
	DisplayName string `json:"displayName"`

	// GivenName is the contact's first name
	GivenName string `json:"givenName,omitempty"`

	// Surname is the contact's last name
	Surname string `json:"surname,omitempty"`

	// EmailAddresses are the contact's email addresses
	EmailAddresses []EmailAddress `json:"emailAddresses,omitempty"`

	// BusinessPhones are the contact's business phone numbers
	BusinessPhones []string `json:"businessPhones,omitempty"`

	// MobilePhone is the contact's mobile number
	MobilePhone string `json:"mobilePhone,omitempty"`

	// CompanyName is the contact's company
	CompanyName string `json:"companyName,omitempty"`

	// JobTitle is the contact's job title
	JobTitle string `json:"jobTitle,omitempty"`

	// PersonalNotes are free-form notes about the contact
	PersonalNotes string `json:"personalNotes,omitempty"`
}

// ContactInput describes a contact to create or the fields to update.
// Zero-valued fields are omitted from the request.
type ContactInput struct {
	GivenName      string
	Surname        string
	EmailAddresses []string
	BusinessPhones []string
	MobilePhone    string
	CompanyName    string
	JobTitle       string
	PersonalNotes  string
}
