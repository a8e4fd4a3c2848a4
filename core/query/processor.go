package query

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/asaidimu/go-sysparm/core/schema"
	"go.uber.org/zap"
)

// PredicateFunction evaluates one condition against a document. It receives
// the condition's field and its encoded operand, and returns true if the
// document passes.
type PredicateFunction func(doc schema.Document, field string, operand string) (bool, error)

// DataProcessor evaluates encoded query fragments against in-memory
// documents, the way the remote API would filter and sort a table.
type DataProcessor struct {
	filterFunctions map[Operator]PredicateFunction
	mu              sync.RWMutex
	logger          *zap.Logger
}

// NewDataProcessor creates a new DataProcessor instance.
func NewDataProcessor(logger *zap.Logger) *DataProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DataProcessor{
		filterFunctions: make(map[Operator]PredicateFunction),
		logger:          logger,
	}
}

// RegisterFilterFunction registers a Go function for an operator. A function
// registered for a standard operator replaces the built-in evaluation.
func (p *DataProcessor) RegisterFilterFunction(operator Operator, fn PredicateFunction) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.filterFunctions[operator] = fn
	p.logger.Info("Registered filter function", zap.String("operator", string(operator)))
}

// RegisterFilterFunctions registers multiple filter functions from a map.
func (p *DataProcessor) RegisterFilterFunctions(functionMap map[Operator]PredicateFunction) {
	p.mu.Lock()
	defer p.mu.Unlock()
	maps.Copy(p.filterFunctions, functionMap)
	for operator := range functionMap {
		p.logger.Info("Registered filter function", zap.String("operator", string(operator)))
	}
}

// plan is the grouped form of a fragment list: segments separated by ^NQ,
// each an AND of OR-groups, plus the orderings in the order they were added.
type plan struct {
	segments  [][][]Fragment
	orderings []Fragment
}

// compilePlan groups fragments. ^OR attaches the next condition to the
// previous group, so OR binds tighter than AND. Connectors with no condition
// to join are ignored.
func compilePlan(fragments []Fragment) plan {
	var (
		pl        plan
		current   [][]Fragment
		pendingOr bool
	)
	flush := func() {
		if len(current) > 0 {
			pl.segments = append(pl.segments, current)
		}
		current = nil
		pendingOr = false
	}

	for _, f := range fragments {
		switch f.Kind {
		case FragmentOrdering:
			pl.orderings = append(pl.orderings, f)
		case FragmentConnector:
			logical, _ := f.Operator.Logical()
			switch logical {
			case schema.LogicalOr:
				pendingOr = true
			case schema.LogicalNq:
				flush()
			default:
				pendingOr = false
			}
		case FragmentCondition:
			if pendingOr && len(current) > 0 {
				last := len(current) - 1
				current[last] = append(current[last], f)
			} else {
				current = append(current, []Fragment{f})
			}
			pendingOr = false
		}
	}
	flush()
	return pl
}

// ProcessRows returns the rows matched by the fragments, sorted by their
// ordering directives. The input slice is not modified.
func (p *DataProcessor) ProcessRows(ctx context.Context, rows []schema.Document, fragments []Fragment) ([]schema.Document, error) {
	pl := compilePlan(fragments)

	p.mu.RLock()
	defer p.mu.RUnlock()

	results := make([]schema.Document, 0, len(rows))
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		passes, err := p.evaluatePlan(row, pl)
		if err != nil {
			return nil, fmt.Errorf("error evaluating filter for row %+v: %w", row, err)
		}
		if passes {
			results = append(results, row)
		}
	}
	p.logger.Debug("Rows remaining after filters", zap.Int("count", len(results)))

	sortRows(results, pl.orderings)
	return results, nil
}

// Match reports whether a single document is matched by the fragments.
func (p *DataProcessor) Match(ctx context.Context, fragments []Fragment, doc schema.Document) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.evaluatePlan(doc, compilePlan(fragments))
}

func (p *DataProcessor) evaluatePlan(doc schema.Document, pl plan) (bool, error) {
	if len(pl.segments) == 0 {
		return true, nil
	}
	for _, segment := range pl.segments {
		passes, err := p.evaluateSegment(doc, segment)
		if err != nil {
			return false, err
		}
		if passes {
			return true, nil
		}
	}
	return false, nil
}

func (p *DataProcessor) evaluateSegment(doc schema.Document, groups [][]Fragment) (bool, error) {
	for _, group := range groups {
		passes, err := p.evaluateGroup(doc, group)
		if err != nil || !passes {
			return false, err
		}
	}
	return true, nil
}

func (p *DataProcessor) evaluateGroup(doc schema.Document, group []Fragment) (bool, error) {
	for _, condition := range group {
		passes, err := p.evaluateCondition(doc, condition)
		if err != nil {
			return false, err
		}
		if passes {
			return true, nil
		}
	}
	return false, nil
}

func (p *DataProcessor) evaluateCondition(doc schema.Document, condition Fragment) (bool, error) {
	if fn, ok := p.filterFunctions[condition.Operator]; ok {
		return fn(doc, condition.Field, condition.Operand)
	}
	if !condition.Operator.IsStandard() {
		return false, fmt.Errorf("unregistered filter function for operator: %s", condition.Operator)
	}
	return evaluateStandardCondition(doc, condition)
}

// evaluateStandardCondition performs the in-memory evaluation for the
// built-in operators. Text matching is case-insensitive; equality is exact.
func evaluateStandardCondition(doc schema.Document, condition Fragment) (bool, error) {
	raw, present := doc[condition.Field]
	empty := !present || raw == nil
	value := valueString(raw)
	operand := condition.Operand

	switch condition.Operator {
	case OperatorStartsWith:
		return strings.HasPrefix(strings.ToLower(value), strings.ToLower(operand)), nil
	case OperatorEndsWith:
		return strings.HasSuffix(strings.ToLower(value), strings.ToLower(operand)), nil
	case OperatorLike:
		return strings.Contains(strings.ToLower(value), strings.ToLower(operand)), nil
	case OperatorNotLike:
		return !strings.Contains(strings.ToLower(value), strings.ToLower(operand)), nil
	case OperatorIsEmpty:
		return empty || value == "", nil
	case OperatorIsNotEmpty:
		return !empty && value != "", nil
	case OperatorEmptyString:
		s, ok := raw.(string)
		return ok && s == "", nil
	case OperatorAnything:
		return true, nil
	case OperatorEq:
		return !empty && equalValues(value, operand), nil
	case OperatorNeq:
		return empty || !equalValues(value, operand), nil
	case OperatorIn:
		return !empty && inList(value, operand), nil
	case OperatorNotIn:
		return empty || !inList(value, operand), nil
	case OperatorGt:
		return !empty && compareValues(value, operand) > 0, nil
	case OperatorGte:
		return !empty && compareValues(value, operand) >= 0, nil
	case OperatorLt:
		return !empty && compareValues(value, operand) < 0, nil
	case OperatorLte:
		return !empty && compareValues(value, operand) <= 0, nil
	case OperatorBetween:
		low, high, ok := strings.Cut(operand, RangeSeparator)
		if !ok {
			return false, fmt.Errorf("malformed between operand %q for field %s", operand, condition.Field)
		}
		return !empty && compareValues(value, low) >= 0 && compareValues(value, high) <= 0, nil
	default:
		return false, fmt.Errorf("unsupported standard operator for Go evaluation: %s", condition.Operator)
	}
}

func inList(value, operand string) bool {
	for _, item := range strings.Split(operand, ListSeparator) {
		if equalValues(value, item) {
			return true
		}
	}
	return false
}

// numericValue parses s as a finite number. NaN and infinities stay text so
// they compare exactly.
func numericValue(s string) (float64, bool) {
	f, ok := ToFloat64(s)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// equalValues compares numerically when both sides are numbers.
func equalValues(a, b string) bool {
	if a == b {
		return true
	}
	if af, ok := numericValue(a); ok {
		if bf, ok := numericValue(b); ok {
			return af == bf
		}
	}
	return false
}

// compareValues orders numerically when both sides are numbers and
// lexically otherwise. Dates in the query layout order correctly as text.
func compareValues(a, b string) int {
	if af, ok := numericValue(a); ok {
		if bf, ok := numericValue(b); ok {
			return cmp.Compare(af, bf)
		}
	}
	return strings.Compare(a, b)
}

// valueString renders a document value with the same rules the encoder
// applies to operands, so both sides of a comparison share one format.
func valueString(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
			return ToUTCQueryFormat(t)
		}
		return v
	case bool:
		return strconv.FormatBool(v)
	case []byte:
		return string(v)
	}
	if t, ok := dateValue(raw); ok {
		return ToUTCQueryFormat(t)
	}
	if s, ok := formatScalar(raw); ok {
		return s
	}
	return fmt.Sprint(raw)
}

// sortRows sorts by each ordering in turn. A column sorts numerically only
// when every non-empty value in it is a number, so the order stays total on
// mixed columns. Empty values sort first in numeric columns.
func sortRows(rows []schema.Document, orderings []Fragment) {
	if len(orderings) == 0 {
		return
	}
	numeric := make([]bool, len(orderings))
	for i, o := range orderings {
		numeric[i] = isNumericColumn(rows, o.Field)
	}
	slices.SortStableFunc(rows, func(a, b schema.Document) int {
		for i, o := range orderings {
			c := compareColumn(valueString(a[o.Field]), valueString(b[o.Field]), numeric[i])
			if o.Operator == OperatorOrderByDesc {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return 0
	})
}

func isNumericColumn(rows []schema.Document, field string) bool {
	for _, row := range rows {
		value := valueString(row[field])
		if value == "" {
			continue
		}
		if _, ok := numericValue(value); !ok {
			return false
		}
	}
	return true
}

func compareColumn(a, b string, numeric bool) int {
	if !numeric {
		return strings.Compare(a, b)
	}
	af, aok := numericValue(a)
	bf, bok := numericValue(b)
	switch {
	case aok && bok:
		return cmp.Compare(af, bf)
	case aok:
		return 1
	case bok:
		return -1
	}
	return 0
}
