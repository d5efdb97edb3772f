package models

import "fmt"

// Kind identifies a persisted entity type.
type Kind int

const (
	KindUser Kind = iota + 1
	KindProduct
	KindJewelryProduct
	KindOrder
)

// Collection names double as the schema names an external data viewer looks
// up, so they must never change.
var collections = map[Kind]string{
	KindUser:           "user",
	KindProduct:        "product",
	KindJewelryProduct: "jewelryproduct",
	KindOrder:          "order",
}

var kindNames = map[Kind]string{
	KindUser:           "User",
	KindProduct:        "Product",
	KindJewelryProduct: "JewelryProduct",
	KindOrder:          "Order",
}

// Kinds lists every persisted kind in declaration order.
var Kinds = []Kind{KindUser, KindProduct, KindJewelryProduct, KindOrder}

func (k Kind) Collection() string {
	return collections[k]
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

func (k Kind) Valid() bool {
	_, ok := collections[k]
	return ok
}

// Entity is a validated record that can be stored as a document.
type Entity interface {
	Kind() Kind
	Document() Document
}

// Defaulter is implemented by entities whose absent fields take non-zero
// defaults.
type Defaulter interface {
	SetDefaults()
}

// Index declares a single-field secondary index.
type Index struct {
	Kind  Kind
	Field string
}

func (i Index) Name() string {
	return fmt.Sprintf("idx_%s_%s", i.Kind.Collection(), i.Field)
}

var Indexes = []Index{
	{Kind: KindJewelryProduct, Field: "category"},
	{Kind: KindJewelryProduct, Field: "featured"},
	{Kind: KindOrder, Field: "status"},
}
