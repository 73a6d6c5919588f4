// Package record defines the canonical patient and guideline records produced
// by the intake extractor, together with their validation rules and FHIR
// transforms.
//
// Optional scalars are pointers: an absent value is nil, never "".
package record

// Gender is the administrative gender of a person.
type Gender string

const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderOther   Gender = "other"
	GenderUnknown Gender = "unknown"
)

// Genders lists every accepted Gender in prompt order.
var Genders = []Gender{GenderMale, GenderFemale, GenderOther, GenderUnknown}

// MaritalStatus is the marital status of a patient.
type MaritalStatus string

const (
	MaritalSingle    MaritalStatus = "single"
	MaritalMarried   MaritalStatus = "married"
	MaritalDivorced  MaritalStatus = "divorced"
	MaritalWidowed   MaritalStatus = "widowed"
	MaritalSeparated MaritalStatus = "separated"
	MaritalUnknown   MaritalStatus = "unknown"
)

// MaritalStatuses lists every accepted MaritalStatus.
var MaritalStatuses = []MaritalStatus{
	MaritalSingle, MaritalMarried, MaritalDivorced,
	MaritalWidowed, MaritalSeparated, MaritalUnknown,
}

// HumanName is a person's name. Every part may be unknown.
type HumanName struct {
	FirstName *string `json:"first_name,omitempty" yaml:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty" yaml:"last_name,omitempty"`
	FullName  *string `json:"full_name,omitempty" yaml:"full_name,omitempty"`
}

// IsZero reports whether no part of the name is known.
func (n HumanName) IsZero() bool {
	return n.FirstName == nil && n.LastName == nil && n.FullName == nil
}

// Phone is a phone number and the context it is used in.
type Phone struct {
	Value  string    `json:"value" yaml:"value"`
	UseFor *PhoneUse `json:"use_for,omitempty" yaml:"use_for,omitempty"`
}

// Email is an email address and the context it is used in.
type Email struct {
	Value  string    `json:"value" yaml:"value"`
	UseFor *EmailUse `json:"use_for,omitempty" yaml:"use_for,omitempty"`
}

// Fax is a fax number and the context it is used in.
type Fax struct {
	Value  string  `json:"value" yaml:"value"`
	UseFor *FaxUse `json:"use_for,omitempty" yaml:"use_for,omitempty"`
}

// Address is a postal address. At least one component is always set.
type Address struct {
	Line       []string `json:"line,omitempty" yaml:"line,omitempty"`
	City       *string  `json:"city,omitempty" yaml:"city,omitempty"`
	State      *string  `json:"state,omitempty" yaml:"state,omitempty"`
	PostalCode *string  `json:"postal_code,omitempty" yaml:"postal_code,omitempty"`
	Country    *string  `json:"country,omitempty" yaml:"country,omitempty"`
}

// IsZero reports whether the address has no component at all.
func (a Address) IsZero() bool {
	return len(a.Line) == 0 && a.City == nil && a.State == nil && a.PostalCode == nil && a.Country == nil
}

// Organization references an organization by id and/or display name.
type Organization struct {
	Reference *string `json:"reference,omitempty" yaml:"reference,omitempty"`
	Display   *string `json:"display,omitempty" yaml:"display,omitempty"`
}

// Contact is an emergency or family contact of the patient.
type Contact struct {
	Relationship  []string       `json:"relationship,omitempty" yaml:"relationship,omitempty"`
	Name          *HumanName     `json:"name,omitempty" yaml:"name,omitempty"`
	Phones        []Phone        `json:"phones,omitempty" yaml:"phones,omitempty"`
	Emails        []Email        `json:"emails,omitempty" yaml:"emails,omitempty"`
	Faxes         []Fax          `json:"faxes,omitempty" yaml:"faxes,omitempty"`
	Addresses     []Address      `json:"addresses,omitempty" yaml:"addresses,omitempty"`
	Gender        *Gender        `json:"gender,omitempty" yaml:"gender,omitempty"`
	Organizations []Organization `json:"organizations,omitempty" yaml:"organizations,omitempty"`
}

// Language is a spoken language and whether the patient prefers it.
type Language struct {
	Value     string `json:"value" yaml:"value"`
	Preferred *bool  `json:"preferred,omitempty" yaml:"preferred,omitempty"`
}

// Deceased carries the death status of a patient. Status may be explicitly
// unset (nil) while Date is known.
type Deceased struct {
	Status *bool `json:"status,omitempty" yaml:"status,omitempty"`
	Date   *Date `json:"date,omitempty" yaml:"date,omitempty"`
}

// Patient is the canonical demographic record.
type Patient struct {
	ID                   string         `json:"id" yaml:"id"`
	Name                 HumanName      `json:"name" yaml:"name"`
	OtherNames           []HumanName    `json:"other_names,omitempty" yaml:"other_names,omitempty"`
	Phones               []Phone        `json:"phones,omitempty" yaml:"phones,omitempty"`
	Emails               []Email        `json:"emails,omitempty" yaml:"emails,omitempty"`
	Faxes                []Fax          `json:"faxes,omitempty" yaml:"faxes,omitempty"`
	Gender               *Gender        `json:"gender,omitempty" yaml:"gender,omitempty"`
	BirthDate            *Date          `json:"birth_date,omitempty" yaml:"birth_date,omitempty"`
	Addresses            []Address      `json:"addresses,omitempty" yaml:"addresses,omitempty"`
	Deceased             *Deceased      `json:"deceased,omitempty" yaml:"deceased,omitempty"`
	MaritalStatus        *MaritalStatus `json:"marital_status,omitempty" yaml:"marital_status,omitempty"`
	Contacts             []Contact      `json:"contacts,omitempty" yaml:"contacts,omitempty"`
	Languages            []Language     `json:"languages,omitempty" yaml:"languages,omitempty"`
	ManagingOrganization *Organization  `json:"managing_organization,omitempty" yaml:"managing_organization,omitempty"`
}

// Ptr returns a pointer to v. Handy when building records by hand.
func Ptr[T any](v T) *T { return &v }
