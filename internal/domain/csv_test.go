package domain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sheetCSV = "Restaurant,Location,Salsa,Rating,Description\r\n" +
	"Jalapeno Tree,\"Mount Pleasant, TX\",Medium,4.5,\r\n" +
	"\r\n" +
	"\"Don Juan (on the Square)\",\"Tyler, TX\",Extra Hot,5,\"Best \"\"hot\"\" sauce\"\r\n"

func TestParseCSV(t *testing.T) {
	t.Run("rows keyed by lower-cased header", func(t *testing.T) {
		rows, err := ParseCSV(sheetCSV)
		require.NoError(t, err)
		require.Len(t, rows, 2)

		want := Row{
			"restaurant":  "Jalapeno Tree",
			"location":    "Mount Pleasant, TX",
			"salsa":       "Medium",
			"rating":      "4.5",
			"description": "",
		}
		if diff := cmp.Diff(want, rows[0]); diff != "" {
			t.Fatalf("row mismatch (-want +got):\n%s", diff)
		}
		assert.Equal(t, `Best "hot" sauce`, rows[1]["description"])
		assert.Equal(t, "Don Juan (on the Square)", rows[1]["restaurant"])
	})

	t.Run("fields and headers are trimmed", func(t *testing.T) {
		rows, err := ParseCSV("  Restaurant , Rating \n  Pollo Bueno  ,  4.0  \n")
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "Pollo Bueno", rows[0]["restaurant"])
		assert.Equal(t, "4.0", rows[0]["rating"])
	})

	t.Run("short rows are padded and long rows truncated", func(t *testing.T) {
		rows, err := ParseCSV("restaurant,location,rating\nA\nB,Tyler,4,extra\n")
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, Row{"restaurant": "A", "location": "", "rating": ""}, rows[0])
		assert.Equal(t, Row{"restaurant": "B", "location": "Tyler", "rating": "4"}, rows[1])
	})

	t.Run("whitespace-only lines are skipped", func(t *testing.T) {
		rows, err := ParseCSV("restaurant\n   \nA\n\t\nB\n")
		require.NoError(t, err)
		assert.Len(t, rows, 2)
	})

	t.Run("header only yields no rows", func(t *testing.T) {
		rows, err := ParseCSV("restaurant,rating\n")
		require.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("empty text yields no rows", func(t *testing.T) {
		rows, err := ParseCSV("")
		require.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("stray quote only affects its own row", func(t *testing.T) {
		rows, err := ParseCSV("Restaurant,Location,Rating\n" +
			"\"Bad Name,Tyler TX,4\n" +
			"Pollo Bueno,Mount Pleasant TX,4.0\n" +
			"Two Senoritas,Mount Pleasant TX,4.1\n")
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, "Bad Name,Tyler TX,4", rows[0]["restaurant"])
		assert.Equal(t, Row{"restaurant": "Pollo Bueno", "location": "Mount Pleasant TX", "rating": "4.0"}, rows[1])
		assert.Equal(t, "Two Senoritas", rows[2]["restaurant"])
	})

	t.Run("rows never span lines", func(t *testing.T) {
		rows, err := ParseCSV("restaurant,description\nA,\"first\nsecond\"\n")
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "first", rows[0]["description"])
		assert.Equal(t, "second\"", rows[1]["restaurant"])
	})

	t.Run("byte order mark is ignored", func(t *testing.T) {
		rows, err := ParseCSV("\ufeffRestaurant\nA\n")
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "A", rows[0]["restaurant"])
	})
}

func TestRestaurantFromRow(t *testing.T) {
	t.Run("salsa column", func(t *testing.T) {
		r := RestaurantFromRow(Row{
			"restaurant":  "Don Juan (on the Square)",
			"location":    "Tyler, TX",
			"salsa":       "Hot",
			"rating":      "5.0",
			"description": "Best hot sauce in East Texas!",
		})
		assert.Equal(t, "Don Juan (on the Square)", r.Name)
		assert.Equal(t, "Tyler, TX", r.Location)
		assert.Equal(t, "Hot", r.Salsa)
		assert.Equal(t, 5.0, r.Rating)
		assert.Equal(t, "Best hot sauce in East Texas!", r.Description)
		assert.Equal(t, "don-juan-on-the-square-tyler-tx", r.ID)
	})

	t.Run("heat column is an alias for salsa", func(t *testing.T) {
		r := RestaurantFromRow(Row{"restaurant": "A", "heat": "Mild"})
		assert.Equal(t, "Mild", r.Salsa)
		assert.Equal(t, HeatMild, r.Heat())
	})

	t.Run("bad rating reads as zero", func(t *testing.T) {
		r := RestaurantFromRow(Row{"restaurant": "A", "rating": "n/a"})
		assert.Zero(t, r.Rating)
	})

	t.Run("missing columns are empty", func(t *testing.T) {
		r := RestaurantFromRow(Row{})
		assert.Empty(t, r.Name)
		assert.Empty(t, r.Salsa)
		assert.Zero(t, r.Rating)
	})
}

func TestRestaurantsFromCSV(t *testing.T) {
	restaurants, err := RestaurantsFromCSV(sheetCSV)
	require.NoError(t, err)
	require.Len(t, restaurants, 2)
	assert.Equal(t, 4.5, restaurants[0].Rating)
	assert.Equal(t, HeatExtraHot, restaurants[1].Heat())

	_, err = RestaurantsFromCSV("restaurant,rating\n")
	assert.ErrorIs(t, err, ErrEmptySheet)
}

func TestParseRating(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"4.5", 4.5},
		{" 4 ", 4},
		{"4.5/5", 4.5},
		{"3.7 stars", 3.7},
		{".5", 0.5},
		{"", 0},
		{"abc", 0},
		{"NaN", 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseRating(tt.in))
		})
	}
}
