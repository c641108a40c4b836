package catalog

import (
	"fmt"
	"strings"
)

// Service is one bookable barbershop service. The catalog is immutable and
// supplied to the dialogue engine by the caller; services are looked up by ID.
type Service struct {
	ID              string `json:"id"`
	NameEN          string `json:"name_en"`
	NameAR          string `json:"name_ar"`
	DurationMinutes int    `json:"duration_minutes"`
	PriceUSD        int    `json:"price_usd"`
}

// Name returns the display name for the given language code ("ar" or "en").
func (s Service) Name(lang string) string {
	if lang == "ar" {
		return s.NameAR
	}
	return s.NameEN
}

// Label renders the menu line for a service: localized name, price, duration.
func (s Service) Label(lang string) string {
	if lang == "ar" {
		return fmt.Sprintf("%s — %d$ — %d دقيقة", s.NameAR, s.PriceUSD, s.DurationMinutes)
	}
	return fmt.Sprintf("%s — $%d — %dm", s.NameEN, s.PriceUSD, s.DurationMinutes)
}

// Catalog is an ordered, immutable set of services.
type Catalog struct {
	services []Service
	byID     map[string]Service
}

// New builds a catalog from the given services. Order is preserved for menus.
func New(services []Service) *Catalog {
	c := &Catalog{
		services: append([]Service(nil), services...),
		byID:     make(map[string]Service, len(services)),
	}
	for _, svc := range services {
		c.byID[strings.ToLower(svc.ID)] = svc
	}
	return c
}

// Default returns the stock barbershop catalog.
func Default() *Catalog {
	return New([]Service{
		{ID: "haircut", NameEN: "Haircut", NameAR: "قص شعر", DurationMinutes: 30, PriceUSD: 20},
		{ID: "beard", NameEN: "Beard trim", NameAR: "تهذيب اللحية", DurationMinutes: 20, PriceUSD: 12},
		{ID: "combo", NameEN: "Haircut + Beard", NameAR: "قص + لحية", DurationMinutes: 45, PriceUSD: 28},
		{ID: "fade", NameEN: "Skin fade", NameAR: "تدريج فيد", DurationMinutes: 40, PriceUSD: 25},
		{ID: "kids", NameEN: "Kids haircut", NameAR: "قص شعر أطفال", DurationMinutes: 25, PriceUSD: 15},
		{ID: "facial", NameEN: "Facial care", NameAR: "عناية بالوجه", DurationMinutes: 25, PriceUSD: 18},
		{ID: "dye", NameEN: "Hair dye", NameAR: "صبغة شعر", DurationMinutes: 60, PriceUSD: 40},
	})
}

// Services returns the catalog in menu order.
func (c *Catalog) Services() []Service {
	return append([]Service(nil), c.services...)
}

// Len reports the number of services.
func (c *Catalog) Len() int {
	return len(c.services)
}

// ByID looks a service up by its identifier.
func (c *Catalog) ByID(id string) (Service, bool) {
	svc, ok := c.byID[strings.ToLower(strings.TrimSpace(id))]
	return svc, ok
}

// Match resolves free text to a service. It accepts the service ID or a
// display name in either language, case-insensitively, and tolerates the
// name being embedded in a longer utterance ("the skin fade please").
// Longer names are tried first so "haircut + beard" wins over "haircut".
func (c *Catalog) Match(input string) (Service, bool) {
	needle := normalize(input)
	if needle == "" {
		return Service{}, false
	}
	if svc, ok := c.byID[needle]; ok {
		return svc, true
	}

	// A name the user quoted in full beats a name that merely starts the
	// same way, so exact wins outright, then names embedded in the
	// utterance (longest first), then names the utterance is a prefix of
	// (shortest first, the tightest completion).
	best := -1
	bestScore := 0
	bestLen := 0
	for i, svc := range c.services {
		for _, name := range []string{svc.NameEN, svc.NameAR, svc.ID} {
			cand := normalize(name)
			if cand == "" {
				continue
			}
			var score int
			switch {
			case needle == cand:
				return c.services[i], true
			case strings.Contains(needle, cand):
				score = 2
			case strings.Contains(cand, needle):
				score = 1
			default:
				continue
			}
			better := score > bestScore ||
				(score == bestScore && score == 2 && len(cand) > bestLen) ||
				(score == bestScore && score == 1 && len(cand) < bestLen)
			if better {
				best = i
				bestScore = score
				bestLen = len(cand)
			}
		}
	}
	if best < 0 {
		return Service{}, false
	}
	return c.services[best], true
}

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	// Collapse whitespace so "haircut  +  beard" still matches.
	return strings.Join(strings.Fields(s), " ")
}
