package gymradar

import (
	"context"
	"fmt"

	"github.com/tidwall/gjson"

	"fitscout-base/pkg/adapters"
	"fitscout-base/pkg/models"
	"fitscout-base/pkg/normalize"
)

const Source = "GymRadar"

var fieldPaths = map[string][]string{
	"id":      {"id", "gym_id"},
	"name":    {"name", "title"},
	"brand":   {"brand", "chain"},
	"address": {"address.street", "address", "street"},
	"zip":     {"address.zip", "zip", "postal_code"},
	"city":    {"address.city", "city"},
	"lat":     {"location.lat", "geo.lat", "lat"},
	"lng":     {"location.lng", "geo.lng", "lng", "lon"},
	"price":   {"membership.monthly", "price_monthly", "price"},
	"link":    {"website", "url", "link"},
}

// Adapter pulls the GymRadar studio directory.
type Adapter struct {
	BaseURL string
	client  *adapters.Client
}

func New(client *adapters.Client, baseURL string) *Adapter {
	return &Adapter{BaseURL: baseURL, client: client}
}

func (a *Adapter) Name() string { return Source }

func (a *Adapter) FetchGyms(ctx context.Context) ([]models.GymLocation, error) {
	u := fmt.Sprintf("%s/v1/studios?country=at", a.BaseURL)
	body, err := a.client.GetJSON(ctx, u, "")
	if err != nil {
		return nil, err
	}

	items := normalize.ResolveField(body, "studios", "results", "data")
	var gyms []models.GymLocation
	items.ForEach(func(_, item gjson.Result) bool {
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
		City:       city,
		Brand:      normalize.ResolveString(raw, fieldPaths["brand"]...),
		Address:    normalize.ResolveString(raw, fieldPaths["address"]...),
		PostalCode: normalize.ResolveString(raw, fieldPaths["zip"]...),
		Link:       normalize.ResolveString(raw, fieldPaths["link"]...),
		Currency:   "EUR",
		Source:     models.GymSource{Provider: Source},
	}

	if id := normalize.ResolveString(raw, fieldPaths["id"]...); id != "" {
		g.ID = Source + ":" + id
		g.Source.ExternalID = id
	} else {
		g.ID = normalize.HashID(g.Brand, name, city)
	}

	if lat, ok := normalize.ResolveNumber(raw, fieldPaths["lat"]...); ok {
		if lng, ok := normalize.ResolveNumber(raw, fieldPaths["lng"]...); ok {
			g.Lat = models.Float(lat)
			g.Lng = models.Float(lng)
		}
	}

	if price, ok := normalize.ResolvePrice(raw, fieldPaths["price"]...); ok {
		g.MonthlyPrice = models.Float(price)
	}

	normalize.ResolveField(raw, "amenities", "features", "tags").ForEach(func(_, v gjson.Result) bool {
		if s := normalize.String(v.Value()); s != "" {
			g.Amenities = append(g.Amenities, s)
		}
		return true
	})

	return g, true
}
