package model

import "sort"

// DefinedFault describes a known fault category.
type DefinedFault struct {
	Code          int    `json:"code" yaml:"code"`
	Name          string `json:"name" yaml:"name"`
	TestCaseLabel string `json:"testCaseLabel" yaml:"label"`
	Description   string `json:"description" yaml:"description"`
}

// Group returns the hundreds bucket of the code (100, 200, ...).
func (f DefinedFault) Group() int { return f.Code / 100 * 100 }

// GroupName names a fault code group. 9xx is reserved for custom codes.
func GroupName(group int) string {
	switch group {
	case 100:
		return "HTTP Issues"
	case 200:
		return "Security"
	case 900:
		return "Custom"
	default:
		return "Other"
	}
}

var builtinFaults = []DefinedFault{
	{100, "HTTP Status 500", "causes500_internalServerError",
		"The HTTP status code 500 represents a 'Server Error'. A crash in the business logic of the tested backend " +
			"is typically turned into such a response, so its presence might indicate a fault. It still needs manual " +
			"checking, as environment issues (databases, other APIs) can produce it too."},
	{101, "Received A Response From API That Is Not Valid According To Its Schema", "returnsSchemaInvalidResponse",
		"The schema defines the structure of the outputs of the API as well as its inputs. A response that does not " +
			"conform to it is a fault, either in the API or in the schema itself."},
	{102, "Received Success Response When Sending Wrong Data", "successOnInvalidInputs",
		"Inputs that violate the types or constraints declared in the schema should be rejected as user errors. " +
			"Processing them successfully means either the schema is wrong or invalid data is not discarded."},
	{103, "Resource Still Accessible After Being Deleted", "deleteNotWorking",
		"After a successful delete the resource should no longer be available. If it can still be accessed, the " +
			"delete operation is faulty."},
	{104, "Failed Creation of Resource Has Side Effects on Backend", "sideEffectsOnFailedCreation",
		"When the API reports that a creation failed, the action should have no side effects and no partial " +
			"resource should be accessible."},
	{200, "SQL Injection (SQLi)", "vulnerableToSQLInjection",
		"Input data was not properly sanitized and its use in SQL commands led to arbitrary commands being executed " +
			"on the database. See OWASP Top 10."},
	{201, "Cross-Site Scripting (XSS)", "vulnerableToXSS",
		"A malicious payload is stored as is and can be read back by a frontend web application, injecting scripts " +
			"into pages viewed by users. See OWASP Top 10."},
	{202, "Server-Side Request Forgery (SSRF)", "vulnerableToSSRF",
		"URL inputs are used to reach external services without verifying their hostnames, so the API can be " +
			"tricked into calling servers such as localhost. See OWASP Top 10."},
	{203, "Mass Assignment", "vulnerableToMassAssignment",
		"Active record misconfigurations allow modifying fields of a record that should not be accessible via the " +
			"API. See OWASP Top 10."},
}

// Catalog indexes fault categories by code.
type Catalog struct {
	byCode map[int]DefinedFault
}

// NewCatalog returns the built-in catalogue with extra entries applied on top;
// an extra entry with an existing code replaces it.
func NewCatalog(extra ...DefinedFault) *Catalog {
	c := &Catalog{byCode: make(map[int]DefinedFault, len(builtinFaults)+len(extra))}
	for _, f := range builtinFaults {
		c.byCode[f.Code] = f
	}
	for _, f := range extra {
		c.byCode[f.Code] = f
	}
	return c
}

// Lookup returns the category for code.
func (c *Catalog) Lookup(code int) (DefinedFault, bool) {
	if c == nil {
		return DefinedFault{}, false
	}
	f, ok := c.byCode[code]
	return f, ok
}

// All returns every category sorted by code.
func (c *Catalog) All() []DefinedFault {
	out := make([]DefinedFault, 0, len(c.byCode))
	for _, f := range c.byCode {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
