package handler

import (
	"testing"
)

func TestProductReqValidate(t *testing.T) {
	t.Parallel()

	base := func() productReq {
		return productReq{
			Name:        "Abbey Road",
			Description: "1969 LP",
			PriceCents:  2999,
			CategoryID:  2,
			Quantity:    10,
			Artists:     "The Beatles",
		}
	}

	if msg := func() string { r := base(); return r.validate() }(); msg != "" {
		t.Fatalf("valid request rejected: %q", msg)
	}

	cases := []struct {
		name string
		mut  func(*productReq)
		want string
	}{
		{"name", func(r *productReq) { r.Name = "  " }, "name is required"},
		{"description", func(r *productReq) { r.Description = "" }, "description is required"},
		{"price", func(r *productReq) { r.PriceCents = 0 }, "price is required"},
		{"category", func(r *productReq) { r.CategoryID = 0 }, "category is required"},
		{"quantity", func(r *productReq) { r.Quantity = 0 }, "quantity is required"},
		{"artists", func(r *productReq) { r.Artists = "" }, "artists is required"},
	}
	for _, tc := range cases {
		r := base()
		tc.mut(&r)
		if msg := r.validate(); msg != tc.want {
			t.Fatalf("%s: got %q, want %q", tc.name, msg, tc.want)
		}
	}
}
