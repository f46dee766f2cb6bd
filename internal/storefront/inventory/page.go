package inventory

import (
	"net/url"
	"path"
	"strings"

	errx "github.com/coldblooded-heartbeats/storefront/internal/core/error"
	"github.com/coldblooded-heartbeats/storefront/internal/storefront/model"
)

// PageContext is the inventory section a page shows.
type PageContext struct {
	Location string
	Category string
	// Landing pages show a short preview instead of the full section.
	Landing bool
}

var pages = map[string]PageContext{
	"":                  {Category: model.CategoryAnimals, Landing: true},
	"index.html":        {Category: model.CategoryAnimals, Landing: true},
	"index":             {Category: model.CategoryAnimals, Landing: true},
	"animals.html":      {Category: model.CategoryAnimals},
	"animals":           {Category: model.CategoryAnimals},
	"live-animals":      {Category: model.CategoryAnimals},
	"live-animals.html": {Category: model.CategoryAnimals},
	"pantry.html":       {Category: model.CategoryPantry},
	"pantry":            {Category: model.CategoryPantry},
	"habitats.html":     {Category: model.CategoryHabitats},
	"habitats":          {Category: model.CategoryHabitats},
	"den.html":          {Category: model.CategoryDen},
	"den":               {Category: model.CategoryDen},
}

// ResolvePage maps a page location such as "/pantry.html" or
// "https://shop.example/animals.html#top" to the section it displays.
func ResolvePage(location string) (PageContext, error) {
	raw := strings.TrimSpace(location)
	p := raw
	if u, err := url.Parse(raw); err == nil {
		p = u.Path
	}

	base := strings.ToLower(path.Base("/" + strings.Trim(p, "/")))
	if base == "/" || base == "." {
		base = ""
	}

	page, ok := pages[base]
	if !ok {
		return PageContext{}, errx.Validationf("no inventory section for page %q", location)
	}
	page.Location = raw
	return page, nil
}

// ForCategory returns the full (non-landing) page for a category id.
func ForCategory(category string) (PageContext, error) {
	c, ok := model.LookupCategory(strings.ToLower(strings.TrimSpace(category)))
	if !ok {
		return PageContext{}, errx.Validationf("unknown category %q", category)
	}
	return PageContext{Location: c.ID + ".html", Category: c.ID}, nil
}
