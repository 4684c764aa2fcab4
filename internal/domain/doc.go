// Package domain models restaurant salsa ratings published as a spreadsheet.
//
// # Data Source
//
// Ratings live in a Google Sheet that is published to the web as CSV. The
// header row names the columns; the service reads these (case-insensitive):
//
//	restaurant   display name, also the key into the coordinate table
//	location     "City, ST"
//	salsa        heat label: Mild, Medium, Hot, Extra Hot ("heat" is accepted as an alias)
//	rating       decimal star rating, 0 to 5
//	description  optional free text shown in map popups
//
// When the sheet cannot be fetched, or parses to zero data rows, the
// restaurants in [FallbackRestaurants] are served instead.
//
// # Star Rendering
//
// Ratings round to the nearest half star with a 0.25/0.75 split:
//
//	4.2  -> ★★★★☆
//	4.3  -> ★★★★½
//	4.75 -> ★★★★★
//
// Values outside 0 to 5 are clamped. See [Stars].
//
// # Heat Levels
//
// Heat labels map to a sort order, a marker color, and a CSS class:
//
//	mild       1  #4caf50  mild
//	medium     2  #ff9800  medium
//	hot        3  #f44336  hot
//	extra hot  4  #9c27b0  extra-hot
//
// Unknown labels sort first (order 0) and render like medium.
//
// # Coordinates
//
// Map pins come from a static, ordered name-to-coordinate table geocoded from
// street addresses. Lookup tries the exact name, then a case-insensitive
// containment match in either direction. See [CoordinateTable.Lookup].
package domain
