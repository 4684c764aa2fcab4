package domain

// fallbackRestaurants is served when the sheet cannot be loaded.
var fallbackRestaurants = []Restaurant{
	{Name: "Jalapeno Tree", Location: "Mount Pleasant, TX", Rating: 4.5},
	{Name: "Restaurante Mexico", Location: "Mount Pleasant, TX", Rating: 4.7},
	{Name: "Tierra Y Mar Grill", Location: "Mount Pleasant, TX", Rating: 4.6},
	{Name: "Jorge's Mexican Restaurant", Location: "Mount Pleasant, TX", Rating: 4.3},
	{Name: "Gabby's Tacos", Location: "Mount Pleasant, TX", Rating: 4.4},
	{Name: "Lala's Mexican Food", Location: "Mount Pleasant, TX", Rating: 4.8},
	{Name: "Pupuseria El Tamarindo", Location: "Mount Pleasant, TX", Rating: 4.2},
	{Name: "Pollo Bueno", Location: "Mount Pleasant, TX", Rating: 4.0},
	{Name: "Two Senoritas", Location: "Mount Pleasant, TX", Rating: 4.1},
	{Name: "Taqueria Monterrey", Location: "Mount Pleasant, TX", Rating: 4.3},
	{Name: "Don Juan (on the Square)", Location: "Tyler, TX", Rating: 5.0, Description: "Best hot sauce in East Texas!"},
	{Name: "Juan Pablos", Location: "Sulphur Springs, TX", Rating: 4.0},
}

// FallbackRestaurants returns a fresh copy of the static fallback list.
func FallbackRestaurants() []Restaurant {
	out := make([]Restaurant, len(fallbackRestaurants))
	for i, r := range fallbackRestaurants {
		r.ID = restaurantID(r.Name, r.Location)
		out[i] = r
	}
	return out
}
