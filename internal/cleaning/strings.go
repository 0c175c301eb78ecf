package cleaning

import (
	"context"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tigerroll/ontime/internal/domain/entity"
)

// StringNormalizer trims string attributes, turns the "nan"/"NAN" sentinels into nulls,
// upper-cases code attributes and title-cases city names.
type StringNormalizer struct {
	title cases.Caser
	upper cases.Caser
}

// NewStringNormalizer creates a StringNormalizer using English casing rules.
func NewStringNormalizer() *StringNormalizer {
	return &StringNormalizer{
		title: cases.Title(language.English),
		upper: cases.Upper(language.English),
	}
}

// Name implements pipeline.Stage.
func (n *StringNormalizer) Name() string { return "StringNormalizer" }

// Apply implements pipeline.Stage.
func (n *StringNormalizer) Apply(ctx context.Context, flights []*entity.Flight) ([]*entity.Flight, error) {
	for _, f := range flights {
		for _, field := range f.StringFields() {
			*field = clean(*field)
		}
		f.OpUniqueCarrier = n.apply(n.upper, f.OpUniqueCarrier)
		f.OriginStateAbr = n.apply(n.upper, f.OriginStateAbr)
		f.DestStateAbr = n.apply(n.upper, f.DestStateAbr)
		f.CancellationCode = n.apply(n.upper, f.CancellationCode)
		f.Div1Airport = n.apply(n.upper, f.Div1Airport)
		f.Div2Airport = n.apply(n.upper, f.Div2Airport)
		f.OriginCityName = n.apply(n.title, f.OriginCityName)
		f.DestCityName = n.apply(n.title, f.DestCityName)
	}
	return flights, nil
}

func (n *StringNormalizer) apply(c cases.Caser, v *string) *string {
	if v == nil {
		return nil
	}
	s := c.String(*v)
	return &s
}

// clean trims v and maps the "nan" sentinels to nil.
func clean(v *string) *string {
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(*v)
	if s == "nan" || s == "NAN" {
		return nil
	}
	return &s
}
