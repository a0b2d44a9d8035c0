package prices

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/ellavondegurechaff/pricevault/internal/domain/pricetree"
	"github.com/ellavondegurechaff/pricevault/pricevault/errs"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// Point is one dated price.
type Point struct {
	Date  time.Time
	Price decimal.Decimal
}

func (p Point) String() string {
	return p.Date.Format(dateLayout) + " " + p.Price.String()
}

// Select evaluates a JSONPath expression against tree, e.g.
// "$.paper.tcgplayer.retail.foil". Numbers come back as json.Number.
func Select(tree pricetree.Tree, expr string) (interface{}, error) {
	v, err := jsonpath.Get(expr, tree.Value())
	if err != nil {
		return nil, fmt.Errorf("error evaluating %q: %w", expr, err)
	}
	return v, nil
}

// Series returns the date-ordered points of the branch at path, which must
// end at the date level (medium, vendor, listing type, finish).
func Series(tree pricetree.Tree, path ...string) ([]Point, error) {
	branch, ok := tree.Get(path...)
	if !ok || branch.IsLeaf() {
		return nil, &errs.NotFoundError{Entity: "price series", Key: strings.Join(path, "/")}
	}

	points := make([]Point, 0, branch.Len())
	for _, key := range branch.Keys() {
		date, err := time.Parse(dateLayout, key)
		if err != nil {
			return nil, fmt.Errorf("%s is not a date branch: %w", strings.Join(path, "/"), err)
		}
		leaf, _ := branch.Child(key)
		price, err := leaf.Decimal()
		if err != nil {
			return nil, fmt.Errorf("price on %s: %w", key, err)
		}
		points = append(points, Point{Date: date, Price: price})
	}
	slices.SortFunc(points, func(a, b Point) int { return a.Date.Compare(b.Date) })
	return points, nil
}

// Latest returns the newest point of a series.
func Latest(points []Point) (Point, bool) {
	if len(points) == 0 {
		return Point{}, false
	}
	return points[len(points)-1], true
}
