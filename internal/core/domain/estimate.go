package domain

// Comparable selection window for price estimates. Changing any of these
// changes estimate outputs.
const (
	EstimateYearWindow   = 3
	EstimateDegreeWindow = 5.0
	EstimateSampleSize   = 3
)

// EstimateCriteria describes the vehicle to price. Every field is optional at
// the boundary, but a comparable can only match when all are present.
type EstimateCriteria struct {
	Make    string
	Model   string
	Year    *int
	Mileage *int64
	Lat     *float64
	Lng     *float64
}

// Complete reports whether every criterion is set.
func (c EstimateCriteria) Complete() bool {
	return c.Make != "" && c.Model != "" && c.Year != nil && c.Mileage != nil &&
		c.Lat != nil && c.Lng != nil
}

// Normalized returns c with make and model in their stored form.
func (c EstimateCriteria) Normalized() EstimateCriteria {
	c.Make = NormalizeName(c.Make)
	c.Model = NormalizeName(c.Model)
	return c
}

// Estimate is the result of a price estimate. Price is nil when no
// comparable report matched.
type Estimate struct {
	Price       *float64
	Comparables int
}

// Matches reports whether r is an eligible comparable for c, ignoring the
// sample-size limit. Stores implement the same predicate natively.
func (c EstimateCriteria) Matches(r *Report) bool {
	if !c.Complete() || !r.Approved {
		return false
	}
	if r.Make != c.Make || r.Model != c.Model {
		return false
	}
	if d := r.Year - *c.Year; d < -EstimateYearWindow || d > EstimateYearWindow {
		return false
	}
	if r.Mileage > *c.Mileage {
		return false
	}
	if d := r.Location.Lat - *c.Lat; d < -EstimateDegreeWindow || d > EstimateDegreeWindow {
		return false
	}
	if d := r.Location.Lng - *c.Lng; d < -EstimateDegreeWindow || d > EstimateDegreeWindow {
		return false
	}
	return true
}
