package record

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalid is wrapped by every FieldError.
var ErrInvalid = errors.New("invalid record")

// FieldError reports one violated schema rule.
type FieldError struct {
	Field string
	Msg   string
}

func (e *FieldError) Error() string { return e.Field + ": " + e.Msg }

func (e *FieldError) Unwrap() error { return ErrInvalid }

type validator struct {
	errs []error
}

func (v *validator) fail(field, format string, args ...any) {
	v.errs = append(v.errs, &FieldError{Field: field, Msg: fmt.Sprintf(format, args...)})
}

func (v *validator) err() error { return errors.Join(v.errs...) }

func blank(s *string) bool { return s != nil && strings.TrimSpace(*s) == "" }

// Validate checks p against the canonical schema and returns every violation
// joined into one error.
func (p *Patient) Validate() error {
	if p == nil {
		return &FieldError{Field: "patient", Msg: "is nil"}
	}
	v := &validator{}
	if strings.TrimSpace(p.ID) == "" {
		v.fail("id", "is required")
	}
	v.name("name", p.Name)
	for i, n := range p.OtherNames {
		v.name(fmt.Sprintf("other_names[%d]", i), n)
	}
	v.telecoms("", p.Phones, p.Emails, p.Faxes)
	if p.Gender != nil && !p.Gender.Valid() {
		v.fail("gender", "%q is not one of %v", *p.Gender, Genders)
	}
	if p.MaritalStatus != nil && !p.MaritalStatus.Valid() {
		v.fail("marital_status", "%q is not one of %v", *p.MaritalStatus, MaritalStatuses)
	}
	v.addresses("", p.Addresses)
	for i, l := range p.Languages {
		if strings.TrimSpace(l.Value) == "" {
			v.fail(fmt.Sprintf("languages[%d].value", i), "is required")
		}
	}
	for i, c := range p.Contacts {
		prefix := fmt.Sprintf("contacts[%d].", i)
		if c.Name == nil {
			v.fail(prefix+"name", "is required")
		} else {
			v.name(prefix+"name", *c.Name)
		}
		for j, r := range c.Relationship {
			if strings.TrimSpace(r) == "" {
				v.fail(fmt.Sprintf("%srelationship[%d]", prefix, j), "is empty")
			}
		}
		v.telecoms(prefix, c.Phones, c.Emails, c.Faxes)
		v.addresses(prefix, c.Addresses)
		if c.Gender != nil && !c.Gender.Valid() {
			v.fail(prefix+"gender", "%q is not one of %v", *c.Gender, Genders)
		}
	}
	return v.err()
}

func (v *validator) name(field string, n HumanName) {
	if blank(n.FirstName) {
		v.fail(field+".first_name", "is empty")
	}
	if blank(n.LastName) {
		v.fail(field+".last_name", "is empty")
	}
	if blank(n.FullName) {
		v.fail(field+".full_name", "is empty")
	}
}

func (v *validator) telecoms(prefix string, phones []Phone, emails []Email, faxes []Fax) {
	for i, t := range phones {
		f := fmt.Sprintf("%sphones[%d]", prefix, i)
		if strings.TrimSpace(t.Value) == "" {
			v.fail(f+".value", "is required")
		}
		if t.UseFor != nil && !t.UseFor.Valid() {
			v.fail(f+".use_for", "%q is not one of %v", *t.UseFor, PhoneUses)
		}
	}
	for i, t := range emails {
		f := fmt.Sprintf("%semails[%d]", prefix, i)
		if strings.TrimSpace(t.Value) == "" {
			v.fail(f+".value", "is required")
		}
		if t.UseFor != nil && !t.UseFor.Valid() {
			v.fail(f+".use_for", "%q is not one of %v", *t.UseFor, EmailUses)
		}
	}
	for i, t := range faxes {
		f := fmt.Sprintf("%sfaxes[%d]", prefix, i)
		if strings.TrimSpace(t.Value) == "" {
			v.fail(f+".value", "is required")
		}
		if t.UseFor != nil && !t.UseFor.Valid() {
			v.fail(f+".use_for", "%q is not one of %v", *t.UseFor, FaxUses)
		}
	}
}

func (v *validator) addresses(prefix string, addrs []Address) {
	for i, a := range addrs {
		if a.IsZero() {
			v.fail(fmt.Sprintf("%saddresses[%d]", prefix, i), "has no component")
		}
	}
}
