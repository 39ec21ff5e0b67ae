// Package einvoice parses Vietnamese electronic invoice XML.
//
// The primary path understands the Decree 123 / Circular 78 layout
// (HDon envelope, HHDVu line items, TToan totals block) wherever it sits
// in the transmission envelope. Files from other issuing systems fall
// back to a generic walk that recognizes item elements by child names.
package einvoice

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/auditlab/invoice-reconciler/internal/domain/normalize"
	"github.com/auditlab/invoice-reconciler/internal/domain/recon"
	"github.com/auditlab/invoice-reconciler/internal/parsers"
)

// ErrNoInvoiceData reports XML that contained no recognizable line items.
var ErrNoInvoiceData = errors.New("no invoice line items recognized in XML")

// node is a minimal DOM: element name, flattened text, children in order.
type node struct {
	name     string
	text     string
	children []*node
}

// Parse reads an e-invoice XML document into the common document shape.
func Parse(r io.Reader) (*parsers.Document, error) {
	root, err := parseTree(r)
	if err != nil {
		return nil, fmt.Errorf("parse invoice xml: %w", err)
	}

	doc := &parsers.Document{Totals: recon.Totals{}}

	for _, hh := range root.findAll("HHDVu") {
		doc.LineItems = append(doc.LineItems, recon.RawLineItem{
			ProductType:  hh.childText("THHDVu"),
			Denomination: hh.childText("DGia"),
			Quantity:     hh.childText("SLuong"),
			Amount:       hh.childText("ThTien"),
			Discount:     hh.childText("STCKhau"),
		})
	}

	if tt := root.find("TToan"); tt != nil {
		setTotal(doc.Totals, recon.TotalBeforeTax, tt.childText("TgTCThue"))
		setTotal(doc.Totals, recon.TotalVATAmount, tt.childText("TgTThue"))
		setTotal(doc.Totals, recon.TotalPayment, tt.childText("TgTTTBSo"))
		if rate := tt.deepChildText("TSuat"); rate != "" {
			setTotal(doc.Totals, recon.TotalVATRate, strings.TrimSuffix(strings.TrimSpace(rate), "%"))
		}
	}

	if len(doc.LineItems) == 0 {
		doc.LineItems = genericItems(root)
	}
	if len(doc.LineItems) == 0 {
		return nil, ErrNoInvoiceData
	}

	return doc, nil
}

// parseTree builds the element tree, dropping namespaces and attributes.
func parseTree(r io.Reader) (*node, error) {
	dec := xml.NewDecoder(r)
	root := &node{name: ""}
	stack := []*node{root}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &node{name: t.Name.Local}
			parent := stack[len(stack)-1]
			parent.children = append(parent.children, n)
			stack = append(stack, n)
		case xml.EndElement:
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			cur := stack[len(stack)-1]
			cur.text += string(t)
		}
	}
	return root, nil
}

// find returns the first descendant with the given local name.
func (n *node) find(name string) *node {
	for _, c := range n.children {
		if c.name == name {
			return c
		}
		if found := c.find(name); found != nil {
			return found
		}
	}
	return nil
}

// findAll returns every descendant with the given local name, in
// document order.
func (n *node) findAll(name string) []*node {
	var out []*node
	for _, c := range n.children {
		if c.name == name {
			out = append(out, c)
		}
		out = append(out, c.findAll(name)...)
	}
	return out
}

// childText returns the trimmed text of the first direct child with the
// given name.
func (n *node) childText(name string) string {
	for _, c := range n.children {
		if c.name == name {
			return strings.TrimSpace(c.text)
		}
	}
	return ""
}

// deepChildText returns the trimmed text of the first descendant with
// the given name.
func (n *node) deepChildText(name string) string {
	if found := n.find(name); found != nil {
		return strings.TrimSpace(found.text)
	}
	return ""
}

func setTotal(t recon.Totals, field recon.TotalField, raw string) {
	// a stated zero is a value, not an absence; only text holding no
	// parsable number at all is absent
	if v, ok := normalize.ParseNumberOK(raw); ok {
		t[field] = v
	}
}

// generic fallback element-name patterns for non-standard issuers
var (
	genericName     = regexp.MustCompile(`(?i)^(ten|thhdvu|name|product|item)`)
	genericQuantity = regexp.MustCompile(`(?i)(sluong|soluong|quantity|qty)`)
	genericPrice    = regexp.MustCompile(`(?i)(dgia|dongia|unitprice|price)`)
	genericAmount   = regexp.MustCompile(`(?i)(thtien|thanhtien|amount|linetotal)`)
	genericDiscount = regexp.MustCompile(`(?i)(ckhau|chietkhau|discount)`)
)

// genericItems walks the whole tree and treats any element owning both a
// name-like child and an amount-like child as a line item.
func genericItems(root *node) []recon.RawLineItem {
	var items []recon.RawLineItem
	var walk func(n *node)
	walk = func(n *node) {
		item, ok := genericItem(n)
		if ok {
			items = append(items, item)
			return // children were consumed as fields
		}
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(root)
	return items
}

func genericItem(n *node) (recon.RawLineItem, bool) {
	var item recon.RawLineItem
	for _, c := range n.children {
		text := strings.TrimSpace(c.text)
		switch {
		case item.ProductType == "" && genericName.MatchString(c.name):
			item.ProductType = text
		case item.Quantity == "" && genericQuantity.MatchString(c.name):
			item.Quantity = text
		case item.Denomination == "" && genericPrice.MatchString(c.name):
			item.Denomination = text
		case item.Amount == "" && genericAmount.MatchString(c.name):
			item.Amount = text
		case item.Discount == "" && genericDiscount.MatchString(c.name):
			item.Discount = text
		}
	}
	return item, item.ProductType != "" && item.Amount != ""
}
