package report

import (
	"sort"

	"github.com/chmouel/go-wfc-report/internal/model"
)

// StatusClasses lists the status class keys in display order.
var StatusClasses = []string{"2XX", "3XX", "4XX", "5XX"}

// StatusClass returns the hundreds-digit class of code, or "" outside 200-599.
func StatusClass(code int) string {
	switch {
	case code >= 200 && code < 300:
		return "2XX"
	case code >= 300 && code < 400:
		return "3XX"
	case code >= 400 && code < 500:
		return "4XX"
	case code >= 500 && code < 600:
		return "5XX"
	default:
		return ""
	}
}

// StatusClassCounts counts, per status class, the declared endpoints that
// returned at least one code of that class. Every class key is present.
func StatusClassCounts(observations []model.CoveredHTTPStatus, endpointIDs []string) map[string]int {
	counts := make(map[string]int, len(StatusClasses))
	for _, c := range StatusClasses {
		counts[c] = 0
	}

	perEndpoint := make(map[string]map[string]struct{}, len(endpointIDs))
	for _, obs := range observations {
		for _, code := range obs.HTTPStatus {
			class := StatusClass(code)
			if class == "" {
				continue
			}
			seen, ok := perEndpoint[obs.EndpointID]
			if !ok {
				seen = map[string]struct{}{}
				perEndpoint[obs.EndpointID] = seen
			}
			seen[class] = struct{}{}
		}
	}

	for _, id := range endpointIDs {
		for class := range perEndpoint[id] {
			counts[class]++
		}
	}
	return counts
}

// FaultCount summarizes one fault code.
type FaultCount struct {
	Code           int `json:"code"`
	Count          int `json:"count"`          // unique (operation, code, context) occurrences
	OperationCount int `json:"operationCount"` // distinct operations affected
}

type faultKey struct {
	operation    string
	hasOperation bool
	code         int
	context      string
	hasContext   bool
}

type operationKey struct {
	id    string
	isSet bool
}

// FaultCounts deduplicates faults by (operationId, code, context) and groups
// the unique occurrences by code, sorted ascending.
func FaultCounts(found []model.FoundFault) []FaultCount {
	unique := map[faultKey]struct{}{}
	var occurrences []faultKey
	for _, f := range found {
		for _, cat := range f.FaultCategories {
			k := faultKey{code: cat.Code}
			if f.OperationID != nil {
				k.operation, k.hasOperation = *f.OperationID, true
			}
			if cat.Context != nil {
				k.context, k.hasContext = *cat.Context, true
			}
			if _, dup := unique[k]; dup {
				continue
			}
			unique[k] = struct{}{}
			occurrences = append(occurrences, k)
		}
	}

	byCode := map[int]*FaultCount{}
	operations := map[int]map[operationKey]struct{}{}
	for _, k := range occurrences {
		fc, ok := byCode[k.code]
		if !ok {
			fc = &FaultCount{Code: k.code}
			byCode[k.code] = fc
			operations[k.code] = map[operationKey]struct{}{}
		}
		fc.Count++
		operations[k.code][operationKey{id: k.operation, isSet: k.hasOperation}] = struct{}{}
	}

	out := make([]FaultCount, 0, len(byCode))
	for code, fc := range byCode {
		fc.OperationCount = len(operations[code])
		out = append(out, *fc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
