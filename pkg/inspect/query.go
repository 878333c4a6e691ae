package inspect

import (
	"github.com/ohler55/ojg/jp"

	"github.com/Grant-Giesbrecht/graf/pkg/document"
	"github.com/Grant-Giesbrecht/graf/pkg/errors"
)

// Query evaluates a JSONPath expression against d and returns the matches in
// document order. Typed lists are queried as generic lists, so
// "$.axes.Ax0.traces.Tr0.x_data[0]" works on a freshly packed figure.
func Query(d document.Document, expr string) ([]any, error) {
	x, err := jp.ParseString(expr)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid jsonpath %q", expr)
	}
	return x.Get(d.Generic()), nil
}

// QueryFirst returns the first match of expr.
func QueryFirst(d document.Document, expr string) (any, bool, error) {
	res, err := Query(d, expr)
	if err != nil || len(res) == 0 {
		return nil, false, err
	}
	return res[0], true, nil
}
