package models

type User struct {
	Name     string `json:"name" schema:"required" validate:"min=1"`
	Email    string `json:"email" schema:"required"`
	Address  string `json:"address" schema:"required"`
	Age      *int   `json:"age" validate:"omitempty,gte=0,lte=120"`
	IsActive bool   `json:"is_active"`
}

func (u *User) Kind() Kind { return KindUser }

func (u *User) SetDefaults() {
	u.IsActive = true
}

func (u *User) Document() Document {
	return Document{
		"name":      u.Name,
		"email":     u.Email,
		"address":   u.Address,
		"age":       u.Age,
		"is_active": u.IsActive,
	}
}

type Product struct {
	Title       string  `json:"title" schema:"required"`
	Description *string `json:"description"`
	Price       float64 `json:"price" schema:"required" validate:"gte=0"`
	Category    string  `json:"category" schema:"required"`
	InStock     bool    `json:"in_stock"`
}

func (p *Product) Kind() Kind { return KindProduct }

func (p *Product) SetDefaults() {
	p.InStock = true
}

func (p *Product) Document() Document {
	return Document{
		"title":       p.Title,
		"description": p.Description,
		"price":       p.Price,
		"category":    p.Category,
		"in_stock":    p.InStock,
	}
}

// JewelryProduct is the storefront's catalogue item. Category is an open set;
// the storefront uses rings, necklaces, earrings and bracelets.
type JewelryProduct struct {
	Title       string   `json:"title" schema:"required"`
	Description *string  `json:"description"`
	Price       float64  `json:"price" schema:"required" validate:"gte=0"`
	Category    string   `json:"category" schema:"required"`
	Images      []string `json:"images"`
	Material    *string  `json:"material"`
	Color       *string  `json:"color"`
	Size        *string  `json:"size"`
	Stock       int      `json:"stock" validate:"gte=0"`
	Rating      *float64 `json:"rating" validate:"omitempty,gte=0,lte=5"`
	Featured    bool     `json:"featured"`
}

func (p *JewelryProduct) Kind() Kind { return KindJewelryProduct }

func (p *JewelryProduct) SetDefaults() {
	p.Images = []string{}
}

func (p *JewelryProduct) Document() Document {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	return Document{
		"title":       p.Title,
		"description": p.Description,
		"price":       p.Price,
		"category":    p.Category,
		"images":      images,
		"material":    p.Material,
		"color":       p.Color,
		"size":        p.Size,
		"stock":       p.Stock,
		"rating":      p.Rating,
		"featured":    p.Featured,
	}
}

type OrderItem struct {
	ProductID string  `json:"product_id" schema:"required"`
	Title     string  `json:"title" schema:"required"`
	Price     float64 `json:"price" schema:"required"`
	Quantity  int     `json:"quantity" schema:"required" validate:"gte=1"`
}

func (i OrderItem) Document() Document {
	return Document{
		"product_id": i.ProductID,
		"title":      i.Title,
		"price":      i.Price,
		"quantity":   i.Quantity,
	}
}

type Order struct {
	Items           []OrderItem `json:"items" schema:"required" validate:"min=1,dive"`
	Total           float64     `json:"total" schema:"required" validate:"gte=0"`
	CustomerName    *string     `json:"customer_name"`
	CustomerEmail   *string     `json:"customer_email"`
	CustomerAddress *string     `json:"customer_address"`
	Status          string      `json:"status"`
}

func (o *Order) Kind() Kind { return KindOrder }

func (o *Order) SetDefaults() {
	o.Status = OrderStatusPending
}

func (o *Order) Document() Document {
	items := make([]Document, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, item.Document())
	}
	return Document{
		"items":            items,
		"total":            o.Total,
		"customer_name":    o.CustomerName,
		"customer_email":   o.CustomerEmail,
		"customer_address": o.CustomerAddress,
		"status":           o.Status,
	}
}

// OrderStatusPending is the status of every newly created order.
const OrderStatusPending = "pending"
