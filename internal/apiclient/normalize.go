package apiclient

import (
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/xenking/otamanga-storefront/internal/domain/auth"
	"github.com/xenking/otamanga-storefront/internal/domain/metrics"
	"github.com/xenking/otamanga-storefront/internal/domain/order"
	"github.com/xenking/otamanga-storefront/internal/domain/product"
)

// The backend is inconsistent about key casing (id/Id, price/Price). Each
// resource has exactly one decoder below; keys are matched case-insensitively
// and everything past this file sees only canonical domain types.

func fieldName(key []byte) string {
	return strings.ToLower(string(key))
}

// decodeList decodes a JSON array with fn. A null or empty body yields an
// empty list; an object wrapping the array under "$values", "data" or
// "items" is unwrapped.
func decodeList[T any](raw jx.Raw, fn func(d *jx.Decoder) (T, error)) ([]T, error) {
	out := []T{}
	if len(raw) == 0 {
		return out, nil
	}
	d := jx.DecodeBytes(raw)
	if err := decodeListInto(d, &out, fn); err != nil {
		return nil, err
	}
	return out, nil
}

func decodeListInto[T any](d *jx.Decoder, out *[]T, fn func(d *jx.Decoder) (T, error)) error {
	switch tt := d.Next(); tt {
	case jx.Null:
		return d.Null()
	case jx.Array:
		return d.Arr(func(d *jx.Decoder) error {
			v, err := fn(d)
			if err != nil {
				return err
			}
			*out = append(*out, v)
			return nil
		})
	case jx.Object:
		found := false
		err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
			switch fieldName(key) {
			case "$values", "data", "items":
				if !found && d.Next() == jx.Array {
					found = true
					return decodeListInto(d, out, fn)
				}
			}
			return d.Skip()
		})
		if err != nil {
			return err
		}
		if !found {
			return errors.New("unexpected object, expected array")
		}
		return nil
	default:
		return errors.Errorf("unexpected %s, expected array", tt)
	}
}

// decodeObject decodes a single JSON object with fn; a null or empty body
// yields the zero value.
func decodeObject[T any](raw jx.Raw, fn func(d *jx.Decoder) (T, error)) (T, error) {
	var zero T
	if len(raw) == 0 {
		return zero, nil
	}
	d := jx.DecodeBytes(raw)
	if d.Next() == jx.Null {
		return zero, d.Null()
	}
	return fn(d)
}

// decodeText accepts a string, a number (kept in its textual form) or null.
// Any other value is skipped.
func decodeText(d *jx.Decoder) (string, error) {
	switch d.Next() {
	case jx.String:
		return d.Str()
	case jx.Number:
		n, err := d.Num()
		if err != nil {
			return "", err
		}
		return n.String(), nil
	case jx.Null:
		return "", d.Null()
	default:
		return "", d.Skip()
	}
}

// decodePrice accepts a number or a numeric string. Anything else, including
// negative values, decodes to zero.
func decodePrice(d *jx.Decoder) (decimal.Decimal, error) {
	switch d.Next() {
	case jx.Number, jx.String:
		s, err := decodeText(d)
		if err != nil {
			return decimal.Zero, err
		}
		return product.CoercePrice(s), nil
	default:
		return decimal.Zero, d.Skip()
	}
}

// decodeCount accepts an integer as a number or numeric string; fractions are
// truncated and anything else decodes to zero.
func decodeCount(d *jx.Decoder) (int64, error) {
	s, err := decodeText(d)
	if err != nil {
		return 0, err
	}
	n, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, nil
	}
	return n.IntPart(), nil
}

func decodeBool(d *jx.Decoder) (bool, error) {
	switch d.Next() {
	case jx.Bool:
		return d.Bool()
	case jx.String:
		s, err := d.Str()
		return strings.EqualFold(s, "true"), err
	default:
		return false, d.Skip()
	}
}

// decodeRef decodes a nested {id, name} reference, or a bare name.
func decodeRef(d *jx.Decoder) (id, name string, err error) {
	if d.Next() != jx.Object {
		name, err = decodeText(d)
		return "", name, err
	}
	err = d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		var err error
		switch fieldName(key) {
		case "id":
			id, err = decodeText(d)
		case "name", "title":
			name, err = decodeText(d)
		default:
			err = d.Skip()
		}
		return err
	})
	return id, name, err
}

func decodeProduct(d *jx.Decoder) (product.Product, error) {
	var (
		p     product.Product
		image string
	)
	err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		var err error
		switch fieldName(key) {
		case "id", "mangaid":
			p.ID, err = decodeText(d)
		case "title", "name":
			p.Title, err = decodeText(d)
		case "price":
			p.Price, err = decodePrice(d)
		case "stock":
			var n int64
			n, err = decodeCount(d)
			p.Stock = int(n)
		case "imageurl":
			p.ImageURL, err = decodeText(d)
		case "image":
			image, err = decodeText(d)
		case "categoryid":
			p.CategoryID, err = decodeText(d)
		case "categoryname":
			p.CategoryName, err = decodeText(d)
		case "authorid":
			p.AuthorID, err = decodeText(d)
		case "authorname":
			p.AuthorName, err = decodeText(d)
		case "category":
			var id, name string
			id, name, err = decodeRef(d)
			if p.CategoryID == "" {
				p.CategoryID = id
			}
			if name != "" {
				p.CategoryName = name
			}
		case "author":
			var id, name string
			id, name, err = decodeRef(d)
			if p.AuthorID == "" {
				p.AuthorID = id
			}
			if name != "" {
				p.AuthorName = name
			}
		default:
			err = d.Skip()
		}
		return err
	})
	if err != nil {
		return product.Product{}, errors.Wrap(err, "decode product")
	}
	if p.ImageURL == "" {
		p.ImageURL = image
	}
	return p, nil
}

func decodeAuthor(d *jx.Decoder) (product.Author, error) {
	var a product.Author
	err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		var err error
		switch fieldName(key) {
		case "id", "authorid":
			a.ID, err = decodeText(d)
		case "name":
			a.Name, err = decodeText(d)
		case "nationality":
			a.Nationality, err = decodeText(d)
		case "biography", "bio":
			a.Biography, err = decodeText(d)
		default:
			err = d.Skip()
		}
		return err
	})
	if err != nil {
		return product.Author{}, errors.Wrap(err, "decode author")
	}
	return a, nil
}

func decodeCategory(d *jx.Decoder) (product.Category, error) {
	var c product.Category
	err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		var err error
		switch fieldName(key) {
		case "id", "categoryid":
			c.ID, err = decodeText(d)
		case "name":
			c.Name, err = decodeText(d)
		case "description":
			c.Description, err = decodeText(d)
		default:
			err = d.Skip()
		}
		return err
	})
	if err != nil {
		return product.Category{}, errors.Wrap(err, "decode category")
	}
	return c, nil
}

func decodeOrderItem(d *jx.Decoder) (order.Item, error) {
	var it order.Item
	err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		var err error
		switch fieldName(key) {
		case "mangaid", "productid":
			it.ProductID, err = decodeText(d)
		case "title":
			it.Title, err = decodeText(d)
		case "manga", "product":
			var id, title string
			id, title, err = decodeRef(d)
			if it.ProductID == "" {
				it.ProductID = id
			}
			if it.Title == "" {
				it.Title = title
			}
		case "quantity":
			var n int64
			n, err = decodeCount(d)
			it.Quantity = int(n)
		case "price", "unitprice":
			it.Price, err = decodePrice(d)
		default:
			err = d.Skip()
		}
		return err
	})
	return it, err
}

func decodeOrder(d *jx.Decoder) (order.Order, error) {
	o := order.Order{Items: []order.Item{}}
	err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		var err error
		switch fieldName(key) {
		case "id", "orderid":
			o.ID, err = decodeText(d)
		case "userid":
			o.UserID, err = decodeText(d)
		case "total", "totalamount":
			o.Total, err = decodePrice(d)
		case "status":
			o.Status, err = decodeText(d)
		case "createdat", "date", "orderdate":
			o.CreatedAt, err = decodeText(d)
		case "items", "orderitems", "details":
			err = decodeListInto(d, &o.Items, decodeOrderItem)
		default:
			err = d.Skip()
		}
		return err
	})
	if err != nil {
		return order.Order{}, errors.Wrap(err, "decode order")
	}
	return o, nil
}

func decodeTopItem(d *jx.Decoder) (metrics.TopItem, error) {
	var it metrics.TopItem
	err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		var err error
		switch fieldName(key) {
		case "mangaid", "productid", "id":
			if it.ProductID != "" {
				return d.Skip()
			}
			it.ProductID, err = decodeText(d)
		case "title", "name":
			it.Title, err = decodeText(d)
		case "clicks", "count", "total":
			it.Clicks, err = decodeCount(d)
		default:
			err = d.Skip()
		}
		return err
	})
	if err != nil {
		return metrics.TopItem{}, errors.Wrap(err, "decode top item")
	}
	return it, nil
}

func decodeCategoryRank(d *jx.Decoder) (metrics.CategoryRank, error) {
	var r metrics.CategoryRank
	err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		var err error
		switch fieldName(key) {
		case "categoryid", "id":
			if r.CategoryID != "" {
				return d.Skip()
			}
			r.CategoryID, err = decodeText(d)
		case "name", "categoryname", "category":
			if d.Next() == jx.Object {
				var id string
				id, r.Name, err = decodeRef(d)
				if r.CategoryID == "" {
					r.CategoryID = id
				}
				return err
			}
			r.Name, err = decodeText(d)
		case "clicks", "count", "total":
			r.Clicks, err = decodeCount(d)
		default:
			err = d.Skip()
		}
		return err
	})
	if err != nil {
		return metrics.CategoryRank{}, errors.Wrap(err, "decode category rank")
	}
	return r, nil
}

// decodeUser fills name and email from a nested user object.
func decodeUser(d *jx.Decoder, name, email, role *string) error {
	if d.Next() != jx.Object {
		return d.Skip()
	}
	return d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		var err error
		switch fieldName(key) {
		case "name", "fullname":
			*name, err = decodeText(d)
		case "email":
			*email, err = decodeText(d)
		case "role":
			*role, err = decodeText(d)
		default:
			err = d.Skip()
		}
		return err
	})
}

func decodeSession(d *jx.Decoder) (auth.Session, error) {
	var (
		s    auth.Session
		role string
	)
	err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		var err error
		switch fieldName(key) {
		case "token", "accesstoken":
			if s.Token != "" {
				return d.Skip()
			}
			s.Token, err = decodeText(d)
		case "name":
			s.Name, err = decodeText(d)
		case "email":
			s.Email, err = decodeText(d)
		case "user", "admin":
			err = decodeUser(d, &s.Name, &s.Email, &role)
		default:
			err = d.Skip()
		}
		return err
	})
	if err != nil {
		return auth.Session{}, errors.Wrap(err, "decode session")
	}
	return s, nil
}

func decodeStatus(d *jx.Decoder) (auth.Status, error) {
	var st auth.Status
	err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		var err error
		switch fieldName(key) {
		case "authenticated", "isauthenticated":
			st.Authenticated, err = decodeBool(d)
		case "name":
			st.Name, err = decodeText(d)
		case "email":
			st.Email, err = decodeText(d)
		case "role":
			st.Role, err = decodeText(d)
		case "user", "admin":
			err = decodeUser(d, &st.Name, &st.Email, &st.Role)
		default:
			err = d.Skip()
		}
		return err
	})
	if err != nil {
		return auth.Status{}, errors.Wrap(err, "decode auth status")
	}
	return st, nil
}
