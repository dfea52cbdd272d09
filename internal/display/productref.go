package display

import "encoding/json"

// ProductInfo is the populated form of a product reference.
type ProductInfo struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

// ProductRef is a product reference as it appears on the wire: sometimes a bare
// id string, sometimes a populated sub-document. All comparisons go through
// Key() so callers never unwrap the two representations by hand.
type ProductRef struct {
	id        string
	populated *ProductInfo
}

// RefID builds a bare-id reference.
func RefID(id string) ProductRef { return ProductRef{id: id} }

// RefPopulated builds a populated reference.
func RefPopulated(p ProductInfo) ProductRef { return ProductRef{populated: &p} }

// Key returns the product id regardless of representation. Malformed or empty
// references yield "" — callers treat that as "matches nothing".
func (r ProductRef) Key() string {
	if r.populated != nil {
		return r.populated.ID
	}
	return r.id
}

// IsZero reports whether the reference carries no usable id.
func (r ProductRef) IsZero() bool { return r.Key() == "" }

// Name returns the populated name, or "" for a bare id.
func (r ProductRef) Name() string {
	if r.populated != nil {
		return r.populated.Name
	}
	return ""
}

// Image returns the populated image URL, or "" for a bare id.
func (r ProductRef) Image() string {
	if r.populated != nil {
		return r.populated.Image
	}
	return ""
}

// UnmarshalJSON accepts a string, a populated object, or null. Anything else
// decodes to the zero reference instead of failing the whole document.
func (r *ProductRef) UnmarshalJSON(data []byte) error {
	*r = ProductRef{}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		r.id = s
		return nil
	}
	var p ProductInfo
	if err := json.Unmarshal(data, &p); err == nil {
		r.populated = &p
		return nil
	}
	return nil
}

// MarshalJSON mirrors the input representation.
func (r ProductRef) MarshalJSON() ([]byte, error) {
	if r.populated != nil {
		return json.Marshal(r.populated)
	}
	return json.Marshal(r.id)
}
