package normalize

import "testing"

const samplePayload = `{
	"title": "  Whey Protein  ",
	"acf": {"location": {"lat": 48.2082, "lng": "16,3738"}},
	"prices": [{"price": "29,99 €"}, {"price": "34,99 €"}],
	"meta": {"rating": null}
}`

func TestResolveField(t *testing.T) {
	payload := []byte(samplePayload)

	tests := []struct {
		name  string
		paths []string
		want  string
	}{
		{"first path wins", []string{"title", "name"}, "Whey Protein"},
		{"falls through missing", []string{"name", "title"}, "Whey Protein"},
		{"null is skipped", []string{"meta.rating", "title"}, "Whey Protein"},
		{"bracket index", []string{"prices[0].price"}, "29,99 €"},
		{"nested dotted", []string{"acf.location.lat"}, "48.2082"},
		{"nothing resolves", []string{"foo", "bar.baz"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveString(payload, tt.paths...); got != tt.want {
				t.Errorf("ResolveString(%v) = %q, want %q", tt.paths, got, tt.want)
			}
		})
	}
}

func TestResolveNumberAndPrice(t *testing.T) {
	payload := []byte(samplePayload)

	if got, ok := ResolveNumber(payload, "acf.location.lat"); !ok || got != 48.2082 {
		t.Errorf("ResolveNumber lat = %v (%v), want 48.2082", got, ok)
	}
	// string-typed numeric with comma decimal
	if got, ok := ResolveNumber(payload, "acf.location.lng"); !ok || got != 16.3738 {
		t.Errorf("ResolveNumber lng = %v (%v), want 16.3738", got, ok)
	}
	if got, ok := ResolvePrice(payload, "prices[0].price"); !ok || got != 29.99 {
		t.Errorf("ResolvePrice = %v (%v), want 29.99", got, ok)
	}
	if _, ok := ResolvePrice(payload, "meta.rating"); ok {
		t.Error("ResolvePrice on null should report !ok")
	}
}
