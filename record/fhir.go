package record

import (
	"errors"
	"fmt"
)

// ErrNotPatient is returned by FromFHIR for payloads of another resource type.
var ErrNotPatient = errors.New("payload is not a FHIR Patient resource")

func fhirName(n HumanName) map[string]any {
	out := map[string]any{}
	if n.LastName != nil {
		out["family"] = *n.LastName
	}
	if n.FirstName != nil {
		out["given"] = []any{*n.FirstName}
	}
	switch {
	case n.FullName != nil:
		out["text"] = *n.FullName
	case n.FirstName != nil && n.LastName != nil:
		out["text"] = *n.FirstName + " " + *n.LastName
	}
	return out
}

func fhirTelecom(phones []Phone, emails []Email, faxes []Fax) []any {
	var out []any
	entry := func(system, value string, use *string) map[string]any {
		e := map[string]any{"system": system, "value": value}
		if use != nil {
			e["use"] = *use
		}
		return e
	}
	for _, p := range phones {
		out = append(out, entry("phone", p.Value, (*string)(p.UseFor)))
	}
	for _, e := range emails {
		out = append(out, entry("email", e.Value, (*string)(e.UseFor)))
	}
	for _, f := range faxes {
		out = append(out, entry("fax", f.Value, (*string)(f.UseFor)))
	}
	return out
}

func fhirAddress(a Address) map[string]any {
	out := map[string]any{}
	if len(a.Line) > 0 {
		lines := make([]any, len(a.Line))
		for i, l := range a.Line {
			lines[i] = l
		}
		out["line"] = lines
	}
	set := func(key string, v *string) {
		if v != nil {
			out[key] = *v
		}
	}
	set("city", a.City)
	set("state", a.State)
	set("postalCode", a.PostalCode)
	set("country", a.Country)
	return out
}

func fhirOrganization(o Organization) map[string]any {
	out := map[string]any{}
	if o.Reference != nil {
		out["reference"] = *o.Reference
	}
	if o.Display != nil {
		out["display"] = *o.Display
	}
	return out
}

// ToFHIR renders p as a FHIR R4 Patient resource. The first name entry is the
// primary name; other names follow it.
func ToFHIR(p *Patient) map[string]any {
	payload := map[string]any{
		"resourceType": "Patient",
		"id":           p.ID,
	}

	names := []any{fhirName(p.Name)}
	for _, n := range p.OtherNames {
		names = append(names, fhirName(n))
	}
	payload["name"] = names

	if t := fhirTelecom(p.Phones, p.Emails, p.Faxes); len(t) > 0 {
		payload["telecom"] = t
	}
	if p.Gender != nil {
		payload["gender"] = string(*p.Gender)
	}
	if p.BirthDate != nil {
		payload["birthDate"] = p.BirthDate.String()
	}
	if p.MaritalStatus != nil {
		code := string(*p.MaritalStatus)
		payload["maritalStatus"] = map[string]any{
			"coding": []any{map[string]any{"code": code}},
			"text":   code,
		}
	}
	if len(p.Addresses) > 0 {
		addrs := make([]any, len(p.Addresses))
		for i, a := range p.Addresses {
			addrs[i] = fhirAddress(a)
		}
		payload["address"] = addrs
	}
	if len(p.Languages) > 0 {
		comms := make([]any, len(p.Languages))
		for i, l := range p.Languages {
			c := map[string]any{"language": map[string]any{"text": l.Value}}
			if l.Preferred != nil {
				c["preferred"] = *l.Preferred
			}
			comms[i] = c
		}
		payload["communication"] = comms
	}
	if p.ManagingOrganization != nil {
		payload["managingOrganization"] = fhirOrganization(*p.ManagingOrganization)
	}
	if len(p.Contacts) > 0 {
		contacts := make([]any, len(p.Contacts))
		for i, c := range p.Contacts {
			contacts[i] = fhirContact(c)
		}
		payload["contact"] = contacts
	}
	if p.Deceased != nil {
		if p.Deceased.Status != nil && *p.Deceased.Status {
			payload["deceasedBoolean"] = true
		}
		if p.Deceased.Date != nil {
			payload["deceasedDateTime"] = p.Deceased.Date.String()
		}
	}
	return payload
}

func fhirContact(c Contact) map[string]any {
	out := map[string]any{}
	if len(c.Relationship) > 0 {
		rels := make([]any, len(c.Relationship))
		for i, r := range c.Relationship {
			rels[i] = map[string]any{"text": r}
		}
		out["relationship"] = rels
	}
	if c.Name != nil {
		out["name"] = fhirName(*c.Name)
	}
	if t := fhirTelecom(c.Phones, c.Emails, c.Faxes); len(t) > 0 {
		out["telecom"] = t
	}
	// FHIR allows a single contact address; extra ones are dropped.
	if len(c.Addresses) > 0 {
		out["address"] = fhirAddress(c.Addresses[0])
	}
	if c.Gender != nil {
		out["gender"] = string(*c.Gender)
	}
	if len(c.Organizations) > 0 {
		out["organization"] = fhirOrganization(c.Organizations[0])
	}
	return out
}

// FromFHIR builds a Patient from a FHIR Patient resource and validates it.
func FromFHIR(payload map[string]any) (*Patient, error) {
	if rt, _ := payload["resourceType"].(string); rt != "Patient" {
		return nil, ErrNotPatient
	}
	p := &Patient{}
	p.ID, _ = payload["id"].(string)

	names := asSlice(payload["name"])
	if len(names) > 0 {
		p.Name = nameFromFHIR(asMap(names[0]))
		for _, n := range names[1:] {
			p.OtherNames = append(p.OtherNames, nameFromFHIR(asMap(n)))
		}
	}

	p.Phones, p.Emails, p.Faxes = telecomFromFHIR(asSlice(payload["telecom"]))

	if g, ok := payload["gender"].(string); ok {
		p.Gender = Ptr(Gender(g))
	}
	if bd, ok := payload["birthDate"].(string); ok {
		d, err := ParseDate(bd)
		if err != nil {
			return nil, fmt.Errorf("birthDate: %w", err)
		}
		p.BirthDate = &d
	}
	if ms := asMap(payload["maritalStatus"]); ms != nil {
		code := ""
		if codings := asSlice(ms["coding"]); len(codings) > 0 {
			code, _ = asMap(codings[0])["code"].(string)
		}
		if code == "" {
			code, _ = ms["text"].(string)
		}
		if code != "" {
			p.MaritalStatus = Ptr(MaritalStatus(code))
		}
	}
	for _, a := range asSlice(payload["address"]) {
		p.Addresses = append(p.Addresses, addressFromFHIR(asMap(a)))
	}
	for _, c := range asSlice(payload["communication"]) {
		cm := asMap(c)
		text, _ := asMap(cm["language"])["text"].(string)
		l := Language{Value: text}
		if pref, ok := cm["preferred"].(bool); ok {
			l.Preferred = Ptr(pref)
		}
		p.Languages = append(p.Languages, l)
	}
	if mo := asMap(payload["managingOrganization"]); mo != nil {
		o := orgFromFHIR(mo)
		p.ManagingOrganization = &o
	}
	for _, c := range asSlice(payload["contact"]) {
		p.Contacts = append(p.Contacts, contactFromFHIR(asMap(c)))
	}

	status, hasStatus := payload["deceasedBoolean"].(bool)
	dateStr, hasDate := payload["deceasedDateTime"].(string)
	if hasStatus || hasDate {
		p.Deceased = &Deceased{}
		if hasStatus {
			p.Deceased.Status = Ptr(status)
		}
		if hasDate {
			d, err := ParseDate(dateStr)
			if err != nil {
				return nil, fmt.Errorf("deceasedDateTime: %w", err)
			}
			p.Deceased.Date = &d
			if !hasStatus {
				p.Deceased.Status = Ptr(true)
			}
		}
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func contactFromFHIR(m map[string]any) Contact {
	var c Contact
	for _, r := range asSlice(m["relationship"]) {
		switch rv := r.(type) {
		case string:
			c.Relationship = append(c.Relationship, rv)
		case map[string]any:
			if text, ok := rv["text"].(string); ok {
				c.Relationship = append(c.Relationship, text)
			}
		}
	}
	if n := asMap(m["name"]); n != nil {
		name := nameFromFHIR(n)
		c.Name = &name
	} else {
		c.Name = &HumanName{}
	}
	c.Phones, c.Emails, c.Faxes = telecomFromFHIR(asSlice(m["telecom"]))
	if a := asMap(m["address"]); a != nil {
		c.Addresses = []Address{addressFromFHIR(a)}
	}
	if g, ok := m["gender"].(string); ok {
		c.Gender = Ptr(Gender(g))
	}
	if o := asMap(m["organization"]); o != nil {
		c.Organizations = []Organization{orgFromFHIR(o)}
	}
	return c
}

func nameFromFHIR(m map[string]any) HumanName {
	var n HumanName
	if given := asSlice(m["given"]); len(given) > 0 {
		if s, ok := given[0].(string); ok {
			n.FirstName = &s
		}
	}
	if s, ok := m["family"].(string); ok {
		n.LastName = &s
	}
	if s, ok := m["text"].(string); ok {
		n.FullName = &s
	}
	return n
}

func telecomFromFHIR(entries []any) (phones []Phone, emails []Email, faxes []Fax) {
	for _, e := range entries {
		t := asMap(e)
		value, _ := t["value"].(string)
		use, hasUse := t["use"].(string)
		switch t["system"] {
		case "phone":
			ph := Phone{Value: value}
			if hasUse {
				ph.UseFor = Ptr(NormalizePhoneUse(use))
			}
			phones = append(phones, ph)
		case "email":
			em := Email{Value: value}
			if hasUse {
				em.UseFor = Ptr(NormalizeEmailUse(use))
			}
			emails = append(emails, em)
		case "fax":
			fx := Fax{Value: value}
			if hasUse {
				fx.UseFor = Ptr(NormalizeFaxUse(use))
			}
			faxes = append(faxes, fx)
		}
	}
	return phones, emails, faxes
}

func addressFromFHIR(m map[string]any) Address {
	var a Address
	for _, l := range asSlice(m["line"]) {
		if s, ok := l.(string); ok {
			a.Line = append(a.Line, s)
		}
	}
	get := func(key string) *string {
		if s, ok := m[key].(string); ok {
			return &s
		}
		return nil
	}
	a.City = get("city")
	a.State = get("state")
	a.PostalCode = get("postalCode")
	a.Country = get("country")
	return a
}

func orgFromFHIR(m map[string]any) Organization {
	var o Organization
	if s, ok := m["reference"].(string); ok {
		o.Reference = &s
	}
	if s, ok := m["display"].(string); ok {
		o.Display = &s
	}
	return o
}

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func asSlice(v any) []any {
	s, _ := v.([]any)
	return s
}
