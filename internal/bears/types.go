// Package bears assembles the list of bear species served by the API.
// A listing fetches the species tables from Wikipedia, extracts one record
// per table row and resolves each record's image to a direct URL.
package bears

// Bear is one species in the listing. Image is always populated: either a
// resolved URL or the placeholder path.
type Bear struct {
	Name     string `json:"name"`
	Binomial string `json:"binomial"`
	Image    string `json:"image"`
	Range    string `json:"range"`
}

// ListBearsArgs contains parameters for listing bears
type ListBearsArgs struct {
	// No parameters needed - returns every species in the article
}

// ListBearsResult is the result of listing bears
type ListBearsResult struct {
	Bears []Bear `json:"bears"`
	Count int    `json:"count"`
}
