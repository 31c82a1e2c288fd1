// Package catalog holds the static recycling-point, reward and rate data.
package catalog

import (
	"math"
	"sort"

	"trashcash_webapp/internal/domain"
)

const (
	MaterialPlastic     = "пластик"
	MaterialPaper       = "бумага"
	MaterialGlass       = "стекло"
	MaterialMetal       = "металл"
	MaterialElectronics = "электроника"
)

// DefaultRate applies to materials missing from the rate table.
const DefaultRate = 10

const earthRadiusKm = 6371.0

var points = []domain.RecyclingPoint{
	{
		ID: 1, Name: `ЭкоПункт "Невский"`,
		Address: "Санкт-Петербург, Невский проспект, д. 28",
		Lat:     59.9343, Lng: 30.3351, Hours: "09:00-20:00",
		Types:  []string{MaterialPlastic, MaterialPaper, MaterialGlass, MaterialMetal},
		QRCode: "TRASH_001",
	},
	{
		ID: 2, Name: `ЭкоПункт "Васильевский"`,
		Address: "Санкт-Петербург, Васильевский остров, 6-я линия, д. 15",
		Lat:     59.9398, Lng: 30.2808, Hours: "10:00-19:00",
		Types:  []string{MaterialPlastic, MaterialPaper, MaterialGlass},
		QRCode: "TRASH_002",
	},
	{
		ID: 3, Name: `ЭкоПункт "Петроградский"`,
		Address: "Санкт-Петербург, Каменноостровский проспект, д. 42",
		Lat:     59.9658, Lng: 30.3114, Hours: "08:00-21:00",
		Types:  []string{MaterialPlastic, MaterialGlass, MaterialMetal, MaterialElectronics},
		QRCode: "TRASH_003",
	},
	{
		ID: 4, Name: `ЭкоПункт "Центральный"`,
		Address: "Санкт-Петербург, Лиговский проспект, д. 50",
		Lat:     59.9272, Lng: 30.3609, Hours: "09:00-20:00",
		Types:  []string{MaterialPlastic, MaterialPaper, MaterialMetal},
		QRCode: "TRASH_004",
	},
	{
		ID: 5, Name: `ЭкоПункт "Московский"`,
		Address: "Санкт-Петербург, Московский проспект, д. 212",
		Lat:     59.8708, Lng: 30.3194, Hours: "10:00-18:00",
		Types:  []string{MaterialPlastic, MaterialPaper, MaterialGlass, MaterialMetal, MaterialElectronics},
		QRCode: "TRASH_005",
	},
	{
		ID: 6, Name: `ЭкоПункт "Приморский"`,
		Address: "Санкт-Петербург, Приморский проспект, д. 78",
		Lat:     59.9808, Lng: 30.2500, Hours: "09:00-19:00",
		Types:  []string{MaterialPlastic, MaterialPaper, MaterialGlass},
		QRCode: "TRASH_006",
	},
}

var rewards = []domain.Reward{
	{ID: 1, Name: "Промокод на кофе -20%", Description: `Скидка 20% в сети кофеен "КофеМакс"`, Price: 50, Type: domain.RewardPromo, Image: "/static/images/coffee.png"},
	{ID: 2, Name: "Эко-сумка", Description: "Многоразовая сумка-шопер из переработанного материала", Price: 100, Type: domain.RewardProduct, Image: "/static/images/bag.png"},
	{ID: 3, Name: "Многоразовая кружка", Description: "Термокружка из нержавеющей стали", Price: 150, Type: domain.RewardProduct, Image: "/static/images/cup.png"},
	{ID: 4, Name: `Донат в фонд "Помощь детям"`, Description: "Перевести средства в благотворительный фонд", Price: 200, Type: domain.RewardDonation, Image: "/static/images/donation.png", CharityID: "vk_dobro_001"},
}

var rates = map[string]int64{
	MaterialPlastic:     10,
	MaterialPaper:       8,
	MaterialGlass:       12,
	MaterialMetal:       15,
	MaterialElectronics: 25,
}

// Points returns copies of all recycling points. When both coordinates are
// given, each point carries its distance in km and the list is nearest first.
func Points(lat, lng *float64) []domain.RecyclingPoint {
	out := make([]domain.RecyclingPoint, len(points))
	for i := range points {
		out[i] = copyPoint(points[i])
	}
	if lat == nil || lng == nil {
		return out
	}

	for i := range out {
		d := round2(Distance(*lat, *lng, out[i].Lat, out[i].Lng))
		out[i].Distance = &d
	}
	sort.SliceStable(out, func(i, j int) bool {
		return *out[i].Distance < *out[j].Distance
	})
	return out
}

func PointByID(id int64) (domain.RecyclingPoint, bool) {
	for i := range points {
		if points[i].ID == id {
			return copyPoint(points[i]), true
		}
	}
	return domain.RecyclingPoint{}, false
}

func PointByQR(code string) (domain.RecyclingPoint, bool) {
	if code == "" {
		return domain.RecyclingPoint{}, false
	}
	for i := range points {
		if points[i].QRCode == code {
			return copyPoint(points[i]), true
		}
	}
	return domain.RecyclingPoint{}, false
}

func Rewards() []domain.Reward {
	out := make([]domain.Reward, len(rewards))
	copy(out, rewards)
	return out
}

func RewardByID(id int64) (domain.Reward, bool) {
	for _, r := range rewards {
		if r.ID == id {
			return r, true
		}
	}
	return domain.Reward{}, false
}

// Rate is the coins awarded per kilogram of material.
func Rate(material string) int64 {
	if r, ok := rates[material]; ok {
		return r
	}
	return DefaultRate
}

// Materials lists every material with a known rate.
func Materials() []string {
	out := make([]string, 0, len(rates))
	for m := range rates {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// Distance is the great-circle distance in km.
func Distance(lat1, lng1, lat2, lng2 float64) float64 {
	toRad := func(d float64) float64 { return d * math.Pi / 180 }
	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func copyPoint(p domain.RecyclingPoint) domain.RecyclingPoint {
	p.Types = append([]string(nil), p.Types...)
	p.Distance = nil
	return p
}
