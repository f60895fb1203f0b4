package parser

import (
	"bytes"
	"cmp"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const schemaURL = "wfc-report.schema.json"

// schemaNode describes one value of the report document. It renders to a
// JSON Schema document and also keeps the property order, which the schema
// itself loses, so issues can be listed in document order.
type schemaNode struct {
	types      []string
	properties []property
	items      *schemaNode
	minimum    *int64
	unique     bool
}

type property struct {
	name     string
	required bool
	node     *schemaNode
}

func object(props ...property) *schemaNode {
	return &schemaNode{types: []string{"object"}, properties: props}
}

func arrayOf(items *schemaNode) *schemaNode {
	return &schemaNode{types: []string{"array"}, items: items}
}

func str() *schemaNode { return &schemaNode{types: []string{"string"}} }

func integer() *schemaNode { return &schemaNode{types: []string{"integer"}} }

func atLeast(floor int64) *schemaNode {
	return &schemaNode{types: []string{"integer"}, minimum: &floor}
}

func unique(n *schemaNode) *schemaNode {
	n.unique = true
	return n
}

func required(name string, n *schemaNode) property {
	return property{name: name, required: true, node: n}
}

// optional fields may also be null.
func optional(name string, n *schemaNode) property {
	n.types = append(n.types, "null")
	return property{name: name, node: n}
}

var reportSchema = object(
	required("schemaVersion", str()),
	required("toolName", str()),
	required("toolVersion", str()),
	required("creationTime", str()),
	required("totalTests", atLeast(0)),
	optional("executionTimeInSeconds", atLeast(0)),
	required("testFilePaths", arrayOf(str())),
	required("faults", object(
		required("totalNumber", atLeast(0)),
		required("foundFaults", arrayOf(object(
			optional("operationId", str()),
			required("testCaseId", str()),
			required("faultCategories", arrayOf(object(
				required("code", atLeast(1)),
				optional("context", str()),
			))),
		))),
	)),
	required("problemDetails", object(
		optional("rest", object(
			required("outputHttpCalls", atLeast(0)),
			required("evaluatedHttpCalls", atLeast(0)),
			optional("totalHttpCalls", atLeast(0)),
			required("endpointIds", unique(arrayOf(str()))),
			required("coveredHttpStatus", arrayOf(object(
				required("endpointId", str()),
				required("testCaseId", str()),
				required("httpStatus", arrayOf(atLeast(0))),
			))),
		)),
	)),
	required("testCases", arrayOf(object(
		required("id", str()),
		required("filePath", str()),
		optional("startLine", integer()),
		optional("endLine", integer()),
	))),
)

func (n *schemaNode) document() map[string]any {
	doc := map[string]any{}
	if len(n.types) == 1 {
		doc["type"] = n.types[0]
	} else {
		doc["type"] = n.types
	}
	if len(n.properties) > 0 {
		props := make(map[string]any, len(n.properties))
		var req []string
		for _, p := range n.properties {
			props[p.name] = p.node.document()
			if p.required {
				req = append(req, p.name)
			}
		}
		doc["properties"] = props
		if len(req) > 0 {
			doc["required"] = req
		}
	}
	if n.items != nil {
		doc["items"] = n.items.document()
	}
	if n.minimum != nil {
		doc["minimum"] = *n.minimum
	}
	if n.unique {
		doc["uniqueItems"] = true
	}
	return doc
}

// child returns the node describing the value at seg, or nil.
func (n *schemaNode) child(seg string) *schemaNode {
	if n == nil {
		return nil
	}
	for _, p := range n.properties {
		if p.name == seg {
			return p.node
		}
	}
	return n.items
}

func (n *schemaNode) at(loc []string) *schemaNode {
	for _, seg := range loc {
		n = n.child(seg)
	}
	return n
}

// rank orders seg among its siblings: declaration order for properties,
// index order for array items.
func (n *schemaNode) rank(seg string) int {
	if n == nil {
		return 0
	}
	if n.items != nil {
		i, _ := strconv.Atoi(seg)
		return i
	}
	for i, p := range n.properties {
		if p.name == seg {
			return i
		}
	}
	return len(n.properties)
}

func (n *schemaNode) compare(a, b []string) int {
	node := n
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			if c := cmp.Compare(node.rank(a[i]), node.rank(b[i])); c != 0 {
				return c
			}
			return strings.Compare(a[i], b[i])
		}
		node = node.child(a[i])
	}
	return cmp.Compare(len(a), len(b))
}

// expected names the accepted types, leaving out null.
func (n *schemaNode) expected() string {
	if n == nil {
		return ""
	}
	types := slices.DeleteFunc(slices.Clone(n.types), func(t string) bool { return t == "null" })
	return strings.Join(types, " | ")
}

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	data, err := json.Marshal(reportSchema.document())
	if err != nil {
		return nil, err
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, doc); err != nil {
		return nil, fmt.Errorf("adding report schema: %w", err)
	}
	sch, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compiling report schema: %w", err)
	}
	return sch, nil
})
