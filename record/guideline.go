package record

import (
	"fmt"
	"strings"
)

// GuidelineCategory classifies where a guideline comes from.
type GuidelineCategory string

const (
	CategoryInternational GuidelineCategory = "international"
	CategoryVietnamese    GuidelineCategory = "vietnamese"
	CategoryOther         GuidelineCategory = "other"
)

// GuidelineCategories lists every accepted GuidelineCategory.
var GuidelineCategories = []GuidelineCategory{CategoryInternational, CategoryVietnamese, CategoryOther}

// Valid reports whether c is a member of GuidelineCategories.
func (c GuidelineCategory) Valid() bool { return oneOf(c, GuidelineCategories) }

// ReferenceRange is a numeric normal range for a lab test. Bounds are
// inclusive; nil means unbounded.
type ReferenceRange struct {
	Lower  *float64 `json:"lower,omitempty" yaml:"lower,omitempty"`
	Upper  *float64 `json:"upper,omitempty" yaml:"upper,omitempty"`
	Unit   string   `json:"unit" yaml:"unit"`
	AgeMin *int     `json:"ageMin,omitempty" yaml:"ageMin,omitempty"`
	AgeMax *int     `json:"ageMax,omitempty" yaml:"ageMax,omitempty"`
	Sex    *string  `json:"sex,omitempty" yaml:"sex,omitempty"`
}

// LabTestStandard holds the reference ranges for one lab test.
type LabTestStandard struct {
	Code                string           `json:"code" yaml:"code"`
	Name                string           `json:"name" yaml:"name"`
	InternationalRanges []ReferenceRange `json:"internationalRanges,omitempty" yaml:"internationalRanges,omitempty"`
	VietnameseRanges    []ReferenceRange `json:"vietnameseRanges,omitempty" yaml:"vietnameseRanges,omitempty"`
}

// Guideline is clinical guideline metadata, international or local.
type Guideline struct {
	ID            string            `json:"id" yaml:"id"`
	Title         string            `json:"title" yaml:"title"`
	Description   *string           `json:"description,omitempty" yaml:"description,omitempty"`
	Category      GuidelineCategory `json:"category" yaml:"category"`
	Source        string            `json:"source" yaml:"source"`
	URL           *string           `json:"url,omitempty" yaml:"url,omitempty"`
	EffectiveDate *Date             `json:"effectiveDate,omitempty" yaml:"effectiveDate,omitempty"`
	Version       *string           `json:"version,omitempty" yaml:"version,omitempty"`
	Tags          []string          `json:"tags,omitempty" yaml:"tags,omitempty"`
	Language      *string           `json:"language,omitempty" yaml:"language,omitempty"`
	LabTests      []LabTestStandard `json:"labTests,omitempty" yaml:"labTests,omitempty"`
}

// Validate checks g against the guideline schema.
func (g *Guideline) Validate() error {
	if g == nil {
		return &FieldError{Field: "guideline", Msg: "is nil"}
	}
	v := &validator{}
	if strings.TrimSpace(g.ID) == "" {
		v.fail("id", "is required")
	}
	if strings.TrimSpace(g.Title) == "" {
		v.fail("title", "is required")
	}
	if strings.TrimSpace(g.Source) == "" {
		v.fail("source", "is required")
	}
	if !g.Category.Valid() {
		v.fail("category", "%q is not one of %v", g.Category, GuidelineCategories)
	}
	for i, t := range g.LabTests {
		prefix := fmt.Sprintf("labTests[%d]", i)
		if strings.TrimSpace(t.Code) == "" {
			v.fail(prefix+".code", "is required")
		}
		if strings.TrimSpace(t.Name) == "" {
			v.fail(prefix+".name", "is required")
		}
		v.ranges(prefix+".internationalRanges", t.InternationalRanges)
		v.ranges(prefix+".vietnameseRanges", t.VietnameseRanges)
	}
	return v.err()
}

func (v *validator) ranges(field string, rs []ReferenceRange) {
	for i, r := range rs {
		f := fmt.Sprintf("%s[%d]", field, i)
		if strings.TrimSpace(r.Unit) == "" {
			v.fail(f+".unit", "is required")
		}
		if r.Lower != nil && r.Upper != nil && *r.Lower > *r.Upper {
			v.fail(f, "lower %v exceeds upper %v", *r.Lower, *r.Upper)
		}
		if r.AgeMin != nil && r.AgeMax != nil && *r.AgeMin > *r.AgeMax {
			v.fail(f, "ageMin %d exceeds ageMax %d", *r.AgeMin, *r.AgeMax)
		}
	}
}
