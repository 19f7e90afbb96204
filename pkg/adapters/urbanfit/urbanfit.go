package urbanfit

import (
	"context"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"fitscout-base/pkg/adapters"
	"fitscout-base/pkg/models"
	"fitscout-base/pkg/normalize"
)

const Source = "UrbanFit"

// UrbanFit runs a WordPress site; studio records arrive as wp/v2 posts with
// the interesting bits buried in ACF fields. Coordinates have shipped both
// nested and flat over time.
var fieldPaths = map[string][]string{
	"name":    {"title.rendered", "title", "name"},
	"address": {"acf.adresse", "acf.address"},
	"zip":     {"acf.plz", "acf.zip"},
	"city":    {"acf.stadt", "acf.city"},
	"lat":     {"acf.location.lat", "acf.lat"},
	"lng":     {"acf.location.lng", "acf.lng"},
	"price":   {"acf.monatspreis", "acf.preis", "acf.price"},
	"link":    {"link", "guid.rendered"},
}

type Adapter struct {
	BaseURL string
	client  *adapters.Client
}

func New(client *adapters.Client, baseURL string) *Adapter {
	return &Adapter{BaseURL: baseURL, client: client}
}

func (a *Adapter) Name() string { return Source }

func (a *Adapter) FetchGyms(ctx context.Context) ([]models.GymLocation, error) {
	u := fmt.Sprintf("%s/wp-json/wp/v2/standorte?per_page=100", a.BaseURL)
	body, err := a.client.GetJSON(ctx, u, "")
	if err != nil {
		return nil, err
	}

	var gyms []models.GymLocation
	gjson.ParseBytes(body).ForEach(func(_, item gjson.Result) bool {
		if g, ok := mapGym([]byte(item.Raw)); ok {
			gyms = append(gyms, g)
		}
		return true
	})
	return gyms, nil
}

func mapGym(raw []byte) (models.GymLocation, bool) {
	name := normalize.ResolveString(raw, fieldPaths["name"]...)
	city := normalize.ResolveString(raw, fieldPaths["city"]...)
	if name == "" || city == "" {
		return models.GymLocation{}, false
	}

	g := models.GymLocation{
		Name:       name,
		Brand:      Source,
		City:       city,
		Address:    normalize.ResolveString(raw, fieldPaths["address"]...),
		PostalCode: normalize.ResolveString(raw, fieldPaths["zip"]...),
		Link:       normalize.ResolveString(raw, fieldPaths["link"]...),
		Currency:   "EUR",
		Source:     models.GymSource{Provider: Source},
	}

	if id := normalize.ResolveString(raw, "id"); id != "" {
		g.ID = Source + ":" + id
		g.Source.ExternalID = id
	} else {
		g.ID = normalize.HashID(Source, name, city)
	}

	// ACF stores coordinates as strings more often than not
	if lat, ok := normalize.ResolveNumber(raw, fieldPaths["lat"]...); ok {
		if lng, ok := normalize.ResolveNumber(raw, fieldPaths["lng"]...); ok {
			g.Lat = models.Float(lat)
			g.Lng = models.Float(lng)
		}
	}
	if price, ok := normalize.ResolvePrice(raw, fieldPaths["price"]...); ok {
		g.MonthlyPrice = models.Float(price)
	}

	// amenities arrive either as an ACF array or a comma-joined string
	amenities := normalize.ResolveField(raw, "acf.ausstattung", "acf.amenities")
	if amenities.IsArray() {
		amenities.ForEach(func(_, v gjson.Result) bool {
			if s := normalize.String(v.Value()); s != "" {
				g.Amenities = append(g.Amenities, s)
			}
			return true
		})
	} else if amenities.Type == gjson.String {
		for _, part := range strings.Split(amenities.Str, ",") {
			if s := strings.TrimSpace(part); s != "" {
				g.Amenities = append(g.Amenities, s)
			}
		}
	}

	return g, true
}
